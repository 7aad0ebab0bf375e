package eventbus

import (
	"sync"
	"sync/atomic"
)

// DefaultBuffer is the per-subscriber channel capacity used by New.
const DefaultBuffer = 8

// EventBus is a publish/subscribe bus for events of type T.
type EventBus[T any] interface {
	Publish(T)
	Subscribe() <-chan T
	Unsubscribe(<-chan T)
	Close()
}

// Bus is the default EventBus implementation using fan-out channels.
// Publishing never blocks: an event is dropped for a subscriber whose
// buffer is full.
type Bus[T any] struct {
	mu      sync.RWMutex
	subs    []chan T
	closed  bool
	buffer  int
	dropped atomic.Int64
}

// New creates a Bus with DefaultBuffer slots per subscriber.
func New[T any]() *Bus[T] { return NewWithBuffer[T](DefaultBuffer) }

// NewWithBuffer creates a Bus with the given per-subscriber capacity.
func NewWithBuffer[T any](buffer int) *Bus[T] {
	if buffer < 0 {
		buffer = 0
	}
	return &Bus[T]{buffer: buffer}
}

// Publish sends the event to all subscribers.
func (b *Bus[T]) Publish(e T) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.dropped.Add(1)
		}
	}
}

// Subscribe registers a new subscriber and returns its channel.
func (b *Bus[T]) Subscribe() <-chan T {
	ch := make(chan T, b.buffer)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subs = append(b.subs, ch)
	}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *Bus[T]) Unsubscribe(sub <-chan T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ch := range b.subs {
		if ch == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			if !b.closed {
				close(ch)
			}
			return
		}
	}
}

// Dropped returns how many deliveries were skipped because a subscriber was full.
func (b *Bus[T]) Dropped() int64 { return b.dropped.Load() }

// Close closes all subscriber channels and clears the list.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
	b.mu.Unlock()
}

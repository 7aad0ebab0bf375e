// Package monitoring exposes a process-wide error reporter. The default
// reporter discards everything.
package monitoring

import (
	"sync"
	"time"
)

// Monitor defines methods used for error reporting.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	CapturePanic(v any)
	Flush(timeout time.Duration)
}

// NopMonitor discards every report. It is the default monitor.
type NopMonitor struct{}

// CaptureException does nothing.
func (NopMonitor) CaptureException(error, map[string]string) {}

// CapturePanic does nothing.
func (NopMonitor) CapturePanic(any) {}

// Flush returns immediately.
func (NopMonitor) Flush(time.Duration) {}

var (
	mu      sync.RWMutex
	current Monitor = NopMonitor{}
)

// Init sets the global monitor implementation. A nil monitor restores the
// no-op default.
func Init(m Monitor) {
	mu.Lock()
	defer mu.Unlock()
	if m == nil {
		m = NopMonitor{}
	}
	current = m
}

func get() Monitor {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// CaptureException records the error with optional tags.
func CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	get().CaptureException(err, tags)
}

// Recover reports a panic and panics again. It must be deferred directly.
func Recover() {
	if r := recover(); r != nil {
		m := get()
		m.CapturePanic(r)
		m.Flush(2 * time.Second)
		panic(r)
	}
}

// Go runs fn in a goroutine whose panics are reported.
func Go(fn func()) {
	go func() {
		defer Recover()
		fn()
	}()
}

// Flush flushes buffered events.
func Flush(d time.Duration) {
	get().Flush(d)
}

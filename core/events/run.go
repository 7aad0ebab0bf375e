package events

import (
	"time"

	"github.com/kilianp07/powerplan/core/metrics"
)

// Event is implemented by every event published by the service.
type Event interface {
	EventTime() time.Time
}

// RunCompleted is published after a successful optimization.
type RunCompleted struct {
	Run metrics.RunEvent
}

// EventTime implements Event.
func (e RunCompleted) EventTime() time.Time { return e.Run.Time }

// RunRejected is published when a request fails validation.
type RunRejected struct {
	RunID string
	Err   error
	At    time.Time
}

// EventTime implements Event.
func (e RunRejected) EventTime() time.Time { return e.At }

package metrics

import (
	"time"

	"github.com/kilianp07/powerplan/core/model"
)

// RunEvent describes one completed optimization.
type RunEvent struct {
	RunID    string
	Time     time.Time
	Duration time.Duration
	Request  model.Request
	Result   model.Result
	Status   model.BudgetStatus
}

// Sink records optimization runs for observability purposes.
type Sink interface {
	RecordRun(ev RunEvent) error
}

// RejectedRunEvent describes a request refused before any computation.
type RejectedRunEvent struct {
	RunID  string
	Reason string
	Time   time.Time
}

// RejectionRecorder records rejected requests.
type RejectionRecorder interface {
	RecordRejection(ev RejectedRunEvent) error
}

// IndexStats is a snapshot of the consumption index cache.
type IndexStats struct {
	CachedKeys int
	Scans      int
	Records    int
}

// IndexStatsRecorder records cache statistics.
type IndexStatsRecorder interface {
	RecordIndexStats(st IndexStats) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(RunEvent) error               { return nil }
func (NopSink) RecordRejection(RejectedRunEvent) error { return nil }
func (NopSink) RecordIndexStats(IndexStats) error      { return nil }

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the run to all sinks, returning the first error encountered.
func (m *MultiSink) RecordRun(ev RunEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordRun(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordRejection forwards to sinks supporting it.
func (m *MultiSink) RecordRejection(ev RejectedRunEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(RejectionRecorder); ok {
			if err := rec.RecordRejection(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordIndexStats forwards to sinks supporting it.
func (m *MultiSink) RecordIndexStats(st IndexStats) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(IndexStatsRecorder); ok {
			if err := rec.RecordIndexStats(st); err != nil {
				return err
			}
		}
	}
	return nil
}

// Package runlog persists a history of optimization runs.
package runlog

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kilianp07/powerplan/core/model"
)

// Record captures one optimization request and its outcome.
type Record struct {
	RunID      string             `json:"run_id"`
	Timestamp  time.Time          `json:"timestamp"`
	DurationMS float64            `json:"duration_ms"`
	Request    model.Request      `json:"request"`
	Result     *model.Result      `json:"result,omitempty"`
	Status     model.BudgetStatus `json:"status"`
	Error      string             `json:"error,omitempty"`
}

// Query defines filters for retrieving records. Zero values match everything.
type Query struct {
	Start      time.Time
	End        time.Time
	RunID      string
	OverBudget bool
	// Limit keeps only the most recent matches when positive.
	Limit int
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

func (q Query) match(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.RunID != "" && r.RunID != q.RunID {
		return false
	}
	if q.OverBudget && !r.Status.OverBudget {
		return false
	}
	return true
}

// finish orders records by time and applies the limit.
func (q Query) finish(recs []Record) []Record {
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Timestamp.Before(recs[j].Timestamp) })
	if q.Limit > 0 && len(recs) > q.Limit {
		recs = recs[len(recs)-q.Limit:]
	}
	return recs
}

// Config defines settings for run history storage and rotation.
type Config struct {
	// Backend selects the store type: "jsonl", "rotating", "sqlite" or "none".
	Backend string `json:"backend"`
	// Path is the file location of the store.
	Path string `json:"path"`
	// MaxSizeMB triggers rotation when the file exceeds this size in megabytes.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		c.Path = "runs.jsonl"
	}
	if c.Backend == "rotating" && c.MaxSizeMB == 0 {
		c.MaxSizeMB = 10
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	switch c.Backend {
	case "jsonl", "rotating", "sqlite", "none":
	default:
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	if c.Backend != "none" && c.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// NewStore opens the store selected by cfg.
func NewStore(cfg Config) (Store, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case "rotating":
		return NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	case "none":
		return NopStore{}, nil
	default:
		return NewJSONLStore(cfg.Path)
	}
}

// NopStore discards records.
type NopStore struct{}

func (NopStore) Append(context.Context, Record) error           { return nil }
func (NopStore) Query(context.Context, Query) ([]Record, error) { return nil, nil }
func (NopStore) Close() error                                   { return nil }

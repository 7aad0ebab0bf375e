// Package consumption answers per-appliance, per-day hourly consumption
// questions over an in-memory dataset. Answers are memoized per
// (appliance, day) for the lifetime of the Index.
package consumption

import (
	"sync"

	"github.com/kilianp07/powerplan/core/model"
)

// Entry is one hour of consumption.
type Entry struct {
	Hour      string
	EnergyKWh float64
}

// HourlyUsage is an ordered hour-label to kWh mapping. Order follows the
// dataset rows, not the clock. It is never modified after construction.
type HourlyUsage struct {
	entries []Entry
	pos     map[string]int
}

// Len returns the number of distinct hours.
func (u *HourlyUsage) Len() int { return len(u.entries) }

// Get returns the energy recorded for the hour label.
func (u *HourlyUsage) Get(hour string) (float64, bool) {
	i, ok := u.pos[hour]
	if !ok {
		return 0, false
	}
	return u.entries[i].EnergyKWh, true
}

// Entries returns a copy of the entries in stored order.
func (u *HourlyUsage) Entries() []Entry {
	out := make([]Entry, len(u.entries))
	copy(out, u.entries)
	return out
}

type key struct {
	appliance string
	day       string
}

// Index wraps the dataset and caches lookups. Safe for concurrent use; each
// key is populated at most once.
type Index struct {
	records []model.ConsumptionRecord

	mu    sync.RWMutex
	cache map[key]*HourlyUsage
	scans int
}

// NewIndex builds an index over records. The slice is owned by the index
// afterwards and must not be modified by the caller.
func NewIndex(records []model.ConsumptionRecord) *Index {
	return &Index{records: records, cache: make(map[key]*HourlyUsage)}
}

// Lookup returns the hourly usage of appliance on day. Unknown identifiers
// yield an empty usage, which is cached like any other answer.
func (ix *Index) Lookup(appliance, day string) *HourlyUsage {
	k := key{appliance: appliance, day: day}
	ix.mu.RLock()
	u, ok := ix.cache[k]
	ix.mu.RUnlock()
	if ok {
		return u
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if u, ok := ix.cache[k]; ok {
		return u
	}
	u = ix.scan(appliance, day)
	ix.cache[k] = u
	ix.scans++
	return u
}

// a repeated hour keeps its first position and takes the last value
func (ix *Index) scan(appliance, day string) *HourlyUsage {
	u := &HourlyUsage{pos: make(map[string]int)}
	for _, r := range ix.records {
		if r.Appliance != appliance || r.Day != day {
			continue
		}
		h := r.HourLabel()
		if i, ok := u.pos[h]; ok {
			u.entries[i].EnergyKWh = r.EnergyKWh
			continue
		}
		u.pos[h] = len(u.entries)
		u.entries = append(u.entries, Entry{Hour: h, EnergyKWh: r.EnergyKWh})
	}
	return u
}

// Len returns the number of cached keys.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.cache)
}

// Scans returns how many times the dataset has been scanned.
func (ix *Index) Scans() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.scans
}

// Records returns the number of dataset rows.
func (ix *Index) Records() int { return len(ix.records) }

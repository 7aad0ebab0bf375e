package scheduler

import (
	"sort"
	"time"

	"github.com/kilianp07/powerplan/core/consumption"
	"github.com/kilianp07/powerplan/core/logger"
	"github.com/kilianp07/powerplan/core/model"
)

// Candidate is an hour the filler may add.
type Candidate struct {
	Day       string
	Hour      string
	EnergyKWh float64
	Cost      float64
	Appliance string
}

// BudgetFiller spends the remaining budget on the lowest-consumption hours
// first. It is a greedy heuristic and may leave budget an exact solver would
// use.
type BudgetFiller struct {
	index *consumption.Index
	rate  float64
	log   logger.Logger
}

// NewBudgetFiller returns a filler pricing energy at rate.
func NewBudgetFiller(index *consumption.Index, rate float64, log logger.Logger) BudgetFiller {
	if log == nil {
		log = logger.Nop{}
	}
	return BudgetFiller{index: index, rate: rate, log: log}
}

// Candidates lists every hour of appliances whose own cost fits in
// remaining, appliance-major then weekday then stored hour order.
func (f BudgetFiller) Candidates(appliances []string, remaining float64) []Candidate {
	var out []Candidate
	for _, appliance := range appliances {
		for _, day := range model.Weekdays {
			for _, e := range f.index.Lookup(appliance, day).Entries() {
				cost := e.EnergyKWh * f.rate
				if cost <= remaining {
					out = append(out, Candidate{Day: day, Hour: e.Hour, EnergyKWh: e.EnergyKWh, Cost: cost, Appliance: appliance})
				}
			}
		}
	}
	return out
}

// Select scans candidates by ascending energy and keeps each one whose cost
// still fits. candidates is sorted in place; equal energies keep their order.
func Select(candidates []Candidate, remaining float64) []Candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].EnergyKWh < candidates[j].EnergyKWh
	})
	var accepted []Candidate
	spent := 0.0
	for _, c := range candidates {
		if spent+c.Cost <= remaining {
			accepted = append(accepted, c)
			spent += c.Cost
		}
	}
	return accepted
}

// Fill returns the additional slots per day, each day sorted by hour. A
// non-positive remaining budget yields an empty result.
func (f BudgetFiller) Fill(appliances []string, totalBudget, alreadySpent float64) map[string][]model.Slot {
	start := time.Now()
	res := make(map[string][]model.Slot)
	remaining := totalBudget - alreadySpent
	if remaining <= 0 {
		f.log.Debugf("no budget left for additional usage (remaining %.2f)", remaining)
		return res
	}
	candidates := f.Candidates(appliances, remaining)
	accepted := Select(candidates, remaining)
	for _, c := range accepted {
		res[c.Day] = append(res[c.Day], model.Slot{Hour: c.Hour, EnergyKWh: c.EnergyKWh, Appliance: c.Appliance})
	}
	for _, slots := range res {
		sort.SliceStable(slots, func(i, j int) bool { return slots[i].Hour < slots[j].Hour })
	}
	f.log.Debugw("budget fill done", map[string]any{
		"candidates": len(candidates),
		"accepted":   len(accepted),
		"remaining":  remaining,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return res
}

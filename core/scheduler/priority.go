package scheduler

import (
	"fmt"

	"github.com/kilianp07/powerplan/core/consumption"
	"github.com/kilianp07/powerplan/core/model"
)

// EffectiveHours returns the hours covered by the inclusive window
// [start, end]. When start is after end the window wraps past midnight.
func EffectiveHours(start, end int) ([]int, error) {
	if start < 0 || start >= model.HoursPerDay {
		return nil, fmt.Errorf("start hour %d: %w", start, ErrInvalidHour)
	}
	if end < 0 || end >= model.HoursPerDay {
		return nil, fmt.Errorf("end hour %d: %w", end, ErrInvalidHour)
	}
	var hours []int
	if start > end {
		for h := start; h < model.HoursPerDay; h++ {
			hours = append(hours, h)
		}
		for h := 0; h <= end; h++ {
			hours = append(hours, h)
		}
		return hours, nil
	}
	for h := start; h <= end; h++ {
		hours = append(hours, h)
	}
	return hours, nil
}

// PriorityAllocator totals consumption of a recurring daily window.
type PriorityAllocator struct {
	index *consumption.Index
}

// NewPriorityAllocator returns an allocator reading through index.
func NewPriorityAllocator(index *consumption.Index) PriorityAllocator {
	return PriorityAllocator{index: index}
}

// Allocate sums, for every weekday, the consumption of appliances during the
// window [start, end]. Hours absent from the data are skipped. Every weekday
// gets an entry as soon as one appliance is requested.
func (a PriorityAllocator) Allocate(appliances []string, start, end int) (map[string]model.PriorityUsage, error) {
	hours, err := EffectiveHours(start, end)
	if err != nil {
		return nil, err
	}
	labels := make([]string, len(hours))
	for i, h := range hours {
		labels[i] = model.HourLabel(h)
	}

	res := make(map[string]model.PriorityUsage)
	for _, appliance := range appliances {
		for _, day := range model.Weekdays {
			usage := a.index.Lookup(appliance, day)
			cur := res[day]
			total := 0.0
			matched := false
			for _, l := range labels {
				if kwh, ok := usage.Get(l); ok {
					total += kwh
					cur.Hours = append(cur.Hours, l)
					matched = true
				}
			}
			cur.TotalKWh += total
			if matched && !contains(cur.Appliances, appliance) {
				cur.Appliances = append(cur.Appliances, appliance)
			}
			res[day] = cur
		}
	}
	return res, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

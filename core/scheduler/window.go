package scheduler

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/powerplan/core/consumption"
	"github.com/kilianp07/powerplan/core/model"
)

// DefaultWindowHours is the length of a scheduled block.
const DefaultWindowHours = 2

// WindowAllocator finds the cheapest block of consecutive entries per
// appliance and day.
type WindowAllocator struct {
	index *consumption.Index
}

// NewWindowAllocator returns an allocator reading through index.
func NewWindowAllocator(index *consumption.Index) WindowAllocator {
	return WindowAllocator{index: index}
}

// Allocate returns, per requested day, the concatenation of every
// appliance's best window in request order. Pairs with fewer than length
// entries are skipped.
func (a WindowAllocator) Allocate(appliances, days []string, length int) (map[string][]model.Slot, error) {
	if length <= 0 {
		return nil, fmt.Errorf("window length %d: %w", length, ErrInvalidWindow)
	}
	res := make(map[string][]model.Slot)
	for _, appliance := range appliances {
		for _, day := range days {
			entries := a.index.Lookup(appliance, day).Entries()
			start, ok := MinWindow(energies(entries), length)
			if !ok {
				continue
			}
			for _, e := range entries[start : start+length] {
				res[day] = append(res[day], model.Slot{Hour: e.Hour, EnergyKWh: e.EnergyKWh, Appliance: appliance})
			}
		}
	}
	return res, nil
}

// MinWindow returns the start index of the length-sized window with the
// smallest sum. The earliest window wins ties. ok is false when values is
// shorter than length or length is not positive.
func MinWindow(values []float64, length int) (start int, ok bool) {
	if length <= 0 || len(values) < length {
		return 0, false
	}
	best := floats.Sum(values[:length])
	for i := 1; i+length <= len(values); i++ {
		if s := floats.Sum(values[i : i+length]); s < best {
			best = s
			start = i
		}
	}
	return start, true
}

func energies(entries []consumption.Entry) []float64 {
	out := make([]float64, len(entries))
	for i, e := range entries {
		out[i] = e.EnergyKWh
	}
	return out
}

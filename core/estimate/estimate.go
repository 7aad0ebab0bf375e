// Package estimate computes the running cost of a single appliance from its
// rated power.
package estimate

import (
	"errors"
	"math"
)

// Period lengths used for projections.
const (
	DaysPerMonth = 30
	DaysPerYear  = 365
)

// ErrInvalidInput is returned for non-positive or non-finite inputs.
var ErrInvalidInput = errors.New("invalid estimate input")

// Line is the energy and cost over one period.
type Line struct {
	Period    string  `json:"period"`
	EnergyKWh float64 `json:"energy_kwh"`
	Cost      float64 `json:"cost"`
}

// Estimate holds the per-hour, per-day, per-month and per-year projections.
type Estimate struct {
	Watts       float64 `json:"watts"`
	RatePerKWh  float64 `json:"rate_per_kwh"`
	HoursPerDay float64 `json:"hours_per_day"`
	Lines       []Line  `json:"lines"`
}

// Compute projects the consumption of an appliance drawing watts for
// hoursPerDay hours each day, priced at rate per kWh.
func Compute(watts, rate, hoursPerDay float64) (Estimate, error) {
	for _, v := range []float64{watts, rate, hoursPerDay} {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return Estimate{}, ErrInvalidInput
		}
	}
	hourly := watts / 1000
	daily := hourly * hoursPerDay
	line := func(p string, kwh float64) Line { return Line{Period: p, EnergyKWh: kwh, Cost: kwh * rate} }
	return Estimate{
		Watts:       watts,
		RatePerKWh:  rate,
		HoursPerDay: hoursPerDay,
		Lines: []Line{
			line("hour", hourly),
			line("day", daily),
			line("month", daily*DaysPerMonth),
			line("year", daily*DaysPerYear),
		},
	}, nil
}

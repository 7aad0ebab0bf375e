package model

import "math"

// DefaultRatePerKWh is the electricity price used when none is configured.
const DefaultRatePerKWh = 1400.0

// Request groups every input of one optimization run. Identifiers must
// already be canonical.
type Request struct {
	PriorityAppliances   []string `json:"priority_appliances" yaml:"priority_appliances"`
	PriorityStart        int      `json:"priority_start" yaml:"priority_start"`
	PriorityEnd          int      `json:"priority_end" yaml:"priority_end"`
	ScheduledAppliances  []string `json:"scheduled_appliances" yaml:"scheduled_appliances"`
	ScheduledDays        []string `json:"scheduled_days" yaml:"scheduled_days"`
	AdditionalAppliances []string `json:"additional_appliances" yaml:"additional_appliances"`
	Budget               float64  `json:"budget" yaml:"budget"`
}

// Budget pairs the price of energy with the spending limit of a run.
type Budget struct {
	RatePerKWh   float64 `json:"rate_per_kwh"`
	MonthlyLimit float64 `json:"monthly_limit"`
}

// Cost converts an energy amount to money.
func (b Budget) Cost(kwh float64) float64 { return kwh * b.RatePerKWh }

// PriorityUsage aggregates fixed-window usage of one day.
type PriorityUsage struct {
	TotalKWh   float64  `json:"total_kwh"`
	Hours      []string `json:"hours"`
	// Appliances lists each appliance with at least one matched hour once,
	// in first-seen order. Requested appliances without data are omitted.
	Appliances []string `json:"appliances"`
}

// Slot is one appliance running during one hour.
type Slot struct {
	Hour      string  `json:"hour"`
	EnergyKWh float64 `json:"energy_kwh"`
	Appliance string  `json:"appliance"`
}

// Result is the output of an optimization run.
type Result struct {
	Priority       map[string]PriorityUsage `json:"priority"`
	Scheduled      map[string][]Slot        `json:"scheduled"`
	Additional     map[string][]Slot        `json:"additional"`
	PriorityCost   float64                  `json:"priority_cost"`
	ScheduledCost  float64                  `json:"scheduled_cost"`
	AdditionalCost float64                  `json:"additional_cost"`
	TotalCost      float64                  `json:"total_cost"`
}

// SlotEnergy sums the energy of slots.
func SlotEnergy(slots []Slot) float64 {
	total := 0.0
	for _, s := range slots {
		total += s.EnergyKWh
	}
	return total
}

// BudgetStatus compares the cost of a run with its budget.
type BudgetStatus struct {
	Budget     float64 `json:"budget"`
	TotalCost  float64 `json:"total_cost"`
	Overrun    float64 `json:"overrun"`
	OverBudget bool    `json:"over_budget"`
}

// CheckBudget reports whether the total cost exceeds the budget and by how much.
func CheckBudget(totalCost, budget float64) BudgetStatus {
	st := BudgetStatus{Budget: budget, TotalCost: totalCost}
	if totalCost > budget {
		st.OverBudget = true
		st.Overrun = totalCost - budget
	}
	return st
}

// Validate checks the monetary fields of the request.
func (r Request) Validate() error {
	if math.IsNaN(r.Budget) || math.IsInf(r.Budget, 0) || r.Budget < 0 {
		return ErrInvalidBudget
	}
	return nil
}

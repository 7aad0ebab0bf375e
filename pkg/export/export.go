// Package export renders optimization results for files, terminals and
// browsers.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/kilianp07/powerplan/core/model"
)

// DefaultCurrency prefixes amounts in text reports.
const DefaultCurrency = "Rp"

// Report bundles a result with the context needed to present it.
type Report struct {
	RunID      string             `json:"run_id,omitempty"`
	RatePerKWh float64            `json:"rate_per_kwh"`
	Currency   string             `json:"currency,omitempty"`
	Result     model.Result       `json:"result"`
	Status     model.BudgetStatus `json:"status"`
}

// NewReport computes the budget status of res.
func NewReport(runID string, rate, budget float64, res model.Result) Report {
	return Report{
		RunID:      runID,
		RatePerKWh: rate,
		Result:     res,
		Status:     model.CheckBudget(res.TotalCost, budget),
	}
}

func (r Report) currency() string {
	if r.Currency == "" {
		return DefaultCurrency
	}
	return r.Currency
}

// WriteJSON writes the report to w in JSON format.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteCSV writes one row per slot. Priority usage is written as one row
// per day with its hours separated by spaces and appliances by semicolons.
func WriteCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"tier", "day", "hour", "appliance", "energy_kwh", "cost"}); err != nil {
		return err
	}
	row := func(tier, day, hour, appliance string, kwh float64) error {
		return cw.Write([]string{
			tier, day, hour, appliance,
			strconv.FormatFloat(kwh, 'f', -1, 64),
			strconv.FormatFloat(kwh*r.RatePerKWh, 'f', 2, 64),
		})
	}
	for _, day := range model.Weekdays {
		if p, ok := r.Result.Priority[day]; ok && len(p.Hours) > 0 {
			if err := row("priority", day, strings.Join(p.Hours, " "), strings.Join(p.Appliances, ";"), p.TotalKWh); err != nil {
				return err
			}
		}
		for _, s := range r.Result.Scheduled[day] {
			if err := row("scheduled", day, s.Hour, s.Appliance, s.EnergyKWh); err != nil {
				return err
			}
		}
		for _, s := range r.Result.Additional[day] {
			if err := row("additional", day, s.Hour, s.Appliance, s.EnergyKWh); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

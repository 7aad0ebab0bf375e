package scheduler

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/powerplan/core/consumption"
	"github.com/kilianp07/powerplan/core/logger"
	"github.com/kilianp07/powerplan/core/model"
)

// Config defines pricing and planning parameters loaded from configuration.
type Config struct {
	RatePerKWh  float64 `json:"rate_per_kwh" yaml:"rate_per_kwh"`
	WindowHours int     `json:"window_hours" yaml:"window_hours"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.RatePerKWh == 0 {
		c.RatePerKWh = model.DefaultRatePerKWh
	}
	if c.WindowHours == 0 {
		c.WindowHours = DefaultWindowHours
	}
}

// Validate rejects values the allocators cannot work with.
func (c Config) Validate() error {
	if c.RatePerKWh <= 0 || math.IsNaN(c.RatePerKWh) || math.IsInf(c.RatePerKWh, 0) {
		return ErrInvalidRate
	}
	if c.WindowHours <= 0 {
		return ErrInvalidWindow
	}
	return nil
}

// Optimizer runs the three allocators in order over one dataset. The index
// cache lives as long as the Optimizer.
type Optimizer struct {
	cfg      Config
	index    *consumption.Index
	priority PriorityAllocator
	window   WindowAllocator
	filler   BudgetFiller
	log      logger.Logger
}

// New creates an Optimizer over records. Zero config fields take defaults.
func New(records []model.ConsumptionRecord, cfg Config, log logger.Logger) (*Optimizer, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop{}
	}
	ix := consumption.NewIndex(records)
	return &Optimizer{
		cfg:      cfg,
		index:    ix,
		priority: NewPriorityAllocator(ix),
		window:   NewWindowAllocator(ix),
		filler:   NewBudgetFiller(ix, cfg.RatePerKWh, log),
		log:      log,
	}, nil
}

// Index exposes the consumption index.
func (o *Optimizer) Index() *consumption.Index { return o.index }

// Config returns the effective configuration.
func (o *Optimizer) Config() Config { return o.cfg }

// Optimize computes priority, scheduled and additional usage and their costs.
// Invalid requests are rejected without a partial result.
func (o *Optimizer) Optimize(req model.Request) (model.Result, error) {
	if err := req.Validate(); err != nil {
		return model.Result{}, fmt.Errorf("invalid request: %w", err)
	}
	priority, err := o.priority.Allocate(req.PriorityAppliances, req.PriorityStart, req.PriorityEnd)
	if err != nil {
		return model.Result{}, fmt.Errorf("priority usage: %w", err)
	}
	scheduled, err := o.window.Allocate(req.ScheduledAppliances, req.ScheduledDays, o.cfg.WindowHours)
	if err != nil {
		return model.Result{}, fmt.Errorf("scheduled usage: %w", err)
	}

	rate := o.cfg.RatePerKWh
	var perDay []float64
	for _, day := range model.Weekdays {
		if p, ok := priority[day]; ok {
			perDay = append(perDay, p.TotalKWh*rate)
		}
	}
	priorityCost := floats.Sum(perDay)
	scheduledCost := slotsEnergy(scheduled, uniq(req.ScheduledDays)) * rate

	additional := o.filler.Fill(req.AdditionalAppliances, req.Budget, priorityCost+scheduledCost)
	additionalCost := slotsEnergy(additional, model.Weekdays) * rate

	res := model.Result{
		Priority:       priority,
		Scheduled:      scheduled,
		Additional:     additional,
		PriorityCost:   priorityCost,
		ScheduledCost:  scheduledCost,
		AdditionalCost: additionalCost,
		TotalCost:      priorityCost + scheduledCost + additionalCost,
	}
	o.log.Debugf("optimized schedule: priority %.2f scheduled %.2f additional %.2f total %.2f",
		priorityCost, scheduledCost, additionalCost, res.TotalCost)
	return res, nil
}

// slotsEnergy sums slot energy visiting days in the given order so the
// floating point result does not depend on map iteration.
func slotsEnergy(byDay map[string][]model.Slot, days []string) float64 {
	perDay := make([]float64, 0, len(days))
	for _, d := range days {
		perDay = append(perDay, model.SlotEnergy(byDay[d]))
	}
	return floats.Sum(perDay)
}

func uniq(list []string) []string {
	var out []string
	for _, s := range list {
		if !contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

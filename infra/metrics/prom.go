package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/powerplan/core/metrics"
	"github.com/kilianp07/powerplan/core/model"
)

// Tier labels used by the energy and slot metrics.
const (
	TierPriority   = "priority"
	TierScheduled  = "scheduled"
	TierAdditional = "additional"
)

// PromSink records optimization runs in Prometheus metrics.
type PromSink struct {
	runs      *prometheus.CounterVec
	rejected  prometheus.Counter
	cost      prometheus.Histogram
	duration  prometheus.Histogram
	energy    *prometheus.GaugeVec
	slots     *prometheus.CounterVec
	overrun   prometheus.Gauge
	cacheKeys prometheus.Gauge
	scans     prometheus.Gauge
}

// NewPromSink registers run metrics on the default Prometheus registerer.
// The HTTP endpoint is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by an earlier sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{}
	var err error
	if s.runs, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "powerplan_runs_total",
		Help: "Completed optimization runs",
	}, []string{"over_budget"})); err != nil {
		return nil, err
	}
	if s.rejected, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "powerplan_runs_rejected_total",
		Help: "Optimization requests rejected before computation",
	})); err != nil {
		return nil, err
	}
	if s.cost, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "powerplan_run_cost",
		Help:    "Total cost of optimized schedules in currency units",
		Buckets: prometheus.ExponentialBuckets(10000, 2, 12),
	})); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "powerplan_run_duration_seconds",
		Help:    "Time spent computing a schedule",
		Buckets: prometheus.DefBuckets,
	})); err != nil {
		return nil, err
	}
	if s.energy, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "powerplan_last_run_energy_kwh",
		Help: "Weekly energy per usage tier of the last run",
	}, []string{"tier"})); err != nil {
		return nil, err
	}
	if s.slots, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "powerplan_slots_total",
		Help: "Appliance hours planned per usage tier",
	}, []string{"tier"})); err != nil {
		return nil, err
	}
	if s.overrun, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "powerplan_last_run_budget_overrun",
		Help: "Amount by which the last run exceeded its budget",
	})); err != nil {
		return nil, err
	}
	if s.cacheKeys, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "powerplan_index_cached_keys",
		Help: "Appliance/day pairs held by the consumption index",
	})); err != nil {
		return nil, err
	}
	if s.scans, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "powerplan_index_scans",
		Help: "Dataset scans performed by the consumption index",
	})); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordRun updates counters, histograms and last-run gauges.
func (s *PromSink) RecordRun(ev coremetrics.RunEvent) error {
	s.runs.WithLabelValues(strconv.FormatBool(ev.Status.OverBudget)).Inc()
	s.cost.Observe(ev.Result.TotalCost)
	s.duration.Observe(ev.Duration.Seconds())
	s.overrun.Set(ev.Status.Overrun)

	var priorityKWh, priorityHours float64
	for _, p := range ev.Result.Priority {
		priorityKWh += p.TotalKWh
		priorityHours += float64(len(p.Hours))
	}
	s.energy.WithLabelValues(TierPriority).Set(priorityKWh)
	s.energy.WithLabelValues(TierScheduled).Set(tierEnergy(ev.Result.Scheduled))
	s.energy.WithLabelValues(TierAdditional).Set(tierEnergy(ev.Result.Additional))
	s.slots.WithLabelValues(TierPriority).Add(priorityHours)
	s.slots.WithLabelValues(TierScheduled).Add(float64(slotCount(ev.Result.Scheduled)))
	s.slots.WithLabelValues(TierAdditional).Add(float64(slotCount(ev.Result.Additional)))
	return nil
}

// RecordRejection counts a rejected request.
func (s *PromSink) RecordRejection(coremetrics.RejectedRunEvent) error {
	s.rejected.Inc()
	return nil
}

// RecordIndexStats exposes the index cache size.
func (s *PromSink) RecordIndexStats(st coremetrics.IndexStats) error {
	s.cacheKeys.Set(float64(st.CachedKeys))
	s.scans.Set(float64(st.Scans))
	return nil
}

func tierEnergy(byDay map[string][]model.Slot) float64 {
	total := 0.0
	for _, d := range model.Weekdays {
		total += model.SlotEnergy(byDay[d])
	}
	return total
}

func slotCount(byDay map[string][]model.Slot) int {
	n := 0
	for _, s := range byDay {
		n += len(s)
	}
	return n
}

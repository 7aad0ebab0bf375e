package scheduler

import (
	"encoding/json"
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/kilianp07/powerplan/core/consumption"
	"github.com/kilianp07/powerplan/core/model"
)

const eps = 1e-9

// constantDataset returns one row per hour and weekday for each appliance.
func constantDataset(kwh float64, appliances ...string) []model.ConsumptionRecord {
	var recs []model.ConsumptionRecord
	for _, a := range appliances {
		for _, d := range model.Weekdays {
			for h := 0; h < model.HoursPerDay; h++ {
				recs = append(recs, model.ConsumptionRecord{Appliance: a, Day: d, Time: model.HourLabel(h) + ":00", EnergyKWh: kwh})
			}
		}
	}
	return recs
}

func series(appliance, day string, values ...float64) []model.ConsumptionRecord {
	recs := make([]model.ConsumptionRecord, len(values))
	for i, v := range values {
		recs[i] = model.ConsumptionRecord{Appliance: appliance, Day: day, Time: model.HourLabel(i), EnergyKWh: v}
	}
	return recs
}

func TestEffectiveHoursWrap(t *testing.T) {
	hours, err := EffectiveHours(22, 2)
	if err != nil {
		t.Fatalf("hours: %v", err)
	}
	if !reflect.DeepEqual(hours, []int{22, 23, 0, 1, 2}) {
		t.Fatalf("unexpected hours %v", hours)
	}
}

func TestEffectiveHoursContiguous(t *testing.T) {
	hours, err := EffectiveHours(2, 22)
	if err != nil {
		t.Fatalf("hours: %v", err)
	}
	if len(hours) != 21 || hours[0] != 2 || hours[len(hours)-1] != 22 {
		t.Fatalf("unexpected hours %v", hours)
	}
	for _, h := range hours {
		if h == 23 || h == 0 || h == 1 {
			t.Fatalf("hour %d must be excluded", h)
		}
	}
	single, _ := EffectiveHours(5, 5)
	if !reflect.DeepEqual(single, []int{5}) {
		t.Fatalf("unexpected single hour window %v", single)
	}
}

func TestEffectiveHoursInvalid(t *testing.T) {
	for _, c := range [][2]int{{-1, 3}, {3, 24}, {24, 0}} {
		if _, err := EffectiveHours(c[0], c[1]); !errors.Is(err, ErrInvalidHour) {
			t.Errorf("%v: expected ErrInvalidHour got %v", c, err)
		}
	}
}

func TestPriorityFullDay(t *testing.T) {
	ix := consumption.NewIndex(constantDataset(0.1, "Refrigerator"))
	res, err := NewPriorityAllocator(ix).Allocate([]string{"Refrigerator"}, 0, 23)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if len(res) != 7 {
		t.Fatalf("expected 7 days got %d", len(res))
	}
	for day, p := range res {
		if math.Abs(p.TotalKWh-2.4) > eps {
			t.Fatalf("%s: expected 2.4 got %v", day, p.TotalKWh)
		}
		if len(p.Hours) != 24 {
			t.Fatalf("%s: expected 24 hours got %d", day, len(p.Hours))
		}
		if !reflect.DeepEqual(p.Appliances, []string{"Refrigerator"}) {
			t.Fatalf("%s: unexpected appliances %v", day, p.Appliances)
		}
	}
}

func TestPriorityWrapAroundHours(t *testing.T) {
	ix := consumption.NewIndex(constantDataset(1, "HVAC"))
	res, err := NewPriorityAllocator(ix).Allocate([]string{"HVAC"}, 22, 2)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	mon := res[model.Monday]
	want := []string{"22:00", "23:00", "00:00", "01:00", "02:00"}
	if !reflect.DeepEqual(mon.Hours, want) {
		t.Fatalf("unexpected hours %v", mon.Hours)
	}
	if mon.TotalKWh != 5 {
		t.Fatalf("expected 5 got %v", mon.TotalKWh)
	}
}

func TestPriorityAccumulatesAppliances(t *testing.T) {
	recs := append(constantDataset(1, "HVAC"), series("Lighting", model.Monday, 0, 0, 0.5)...)
	ix := consumption.NewIndex(recs)
	res, err := NewPriorityAllocator(ix).Allocate([]string{"HVAC", "Lighting", "Ghost"}, 1, 2)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	mon := res[model.Monday]
	if math.Abs(mon.TotalKWh-2.5) > eps {
		t.Fatalf("expected 2.5 got %v", mon.TotalKWh)
	}
	if !reflect.DeepEqual(mon.Hours, []string{"01:00", "02:00", "01:00", "02:00"}) {
		t.Fatalf("unexpected hours %v", mon.Hours)
	}
	if !reflect.DeepEqual(mon.Appliances, []string{"HVAC", "Lighting"}) {
		t.Fatalf("unexpected appliances %v", mon.Appliances)
	}
	tue := res[model.Tuesday]
	if !reflect.DeepEqual(tue.Appliances, []string{"HVAC"}) || tue.TotalKWh != 2 {
		t.Fatalf("unexpected tuesday %+v", tue)
	}
}

func TestPriorityNoAppliances(t *testing.T) {
	ix := consumption.NewIndex(nil)
	res, err := NewPriorityAllocator(ix).Allocate(nil, 0, 23)
	if err != nil || len(res) != 0 {
		t.Fatalf("expected empty result, got %v %v", res, err)
	}
}

func TestMinWindow(t *testing.T) {
	cases := []struct {
		values []float64
		length int
		start  int
		ok     bool
	}{
		{[]float64{5, 1, 1, 5}, 2, 1, true},
		{[]float64{2, 2, 2}, 2, 0, true},
		{[]float64{3, 1, 2, 1, 2}, 2, 1, true},
		{[]float64{4, 1, 1, 4, 1, 1}, 2, 1, true},
		{[]float64{1, 2, 3}, 3, 0, true},
		{[]float64{1}, 2, 0, false},
		{[]float64{1, 2}, 0, 0, false},
	}
	for _, c := range cases {
		start, ok := MinWindow(c.values, c.length)
		if ok != c.ok || (ok && start != c.start) {
			t.Errorf("MinWindow(%v,%d) = %d,%v want %d,%v", c.values, c.length, start, ok, c.start, c.ok)
		}
	}
}

func TestWindowAllocatorSelectsMinimum(t *testing.T) {
	ix := consumption.NewIndex(series("Dishwasher", model.Monday, 5, 1, 1, 5))
	res, err := NewWindowAllocator(ix).Allocate([]string{"Dishwasher"}, []string{model.Monday}, 2)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	want := []model.Slot{
		{Hour: "01:00", EnergyKWh: 1, Appliance: "Dishwasher"},
		{Hour: "02:00", EnergyKWh: 1, Appliance: "Dishwasher"},
	}
	if !reflect.DeepEqual(res[model.Monday], want) {
		t.Fatalf("unexpected slots %v", res[model.Monday])
	}
}

func TestWindowAllocatorFollowsStoredOrder(t *testing.T) {
	var recs []model.ConsumptionRecord
	for _, r := range []struct {
		time string
		kwh  float64
	}{{"10:00", 1}, {"02:00", 0.1}, {"05:00", 0.1}, {"03:00", 5}} {
		recs = append(recs, model.ConsumptionRecord{Appliance: "Dryer", Day: model.Tuesday, Time: r.time, EnergyKWh: r.kwh})
	}
	ix := consumption.NewIndex(recs)
	res, err := NewWindowAllocator(ix).Allocate([]string{"Dryer"}, []string{model.Tuesday}, 2)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	want := []model.Slot{
		{Hour: "02:00", EnergyKWh: 0.1, Appliance: "Dryer"},
		{Hour: "05:00", EnergyKWh: 0.1, Appliance: "Dryer"},
	}
	if !reflect.DeepEqual(res[model.Tuesday], want) {
		t.Fatalf("unexpected slots %v", res[model.Tuesday])
	}
}

func TestWindowAllocatorFirstTieWins(t *testing.T) {
	ix := consumption.NewIndex(series("Dishwasher", model.Monday, 2, 2, 2))
	res, err := NewWindowAllocator(ix).Allocate([]string{"Dishwasher"}, []string{model.Monday}, 2)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	slots := res[model.Monday]
	if len(slots) != 2 || slots[0].Hour != "00:00" || slots[1].Hour != "01:00" {
		t.Fatalf("expected first window, got %v", slots)
	}
}

func TestWindowAllocatorConcatenatesAndSkips(t *testing.T) {
	recs := append(series("A", model.Friday, 3, 1, 1), series("B", model.Friday, 0.5, 0.2, 0.9)...)
	recs = append(recs, series("C", model.Friday, 1)...)
	ix := consumption.NewIndex(recs)
	res, err := NewWindowAllocator(ix).Allocate([]string{"B", "C", "A"}, []string{model.Friday, model.Saturday}, 2)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	got := res[model.Friday]
	if len(got) != 4 || got[0].Appliance != "B" || got[2].Appliance != "A" {
		t.Fatalf("unexpected concatenation %v", got)
	}
	if got[0].Hour != "00:00" || got[2].Hour != "01:00" {
		t.Fatalf("unexpected windows %v", got)
	}
	if _, ok := res[model.Saturday]; ok {
		t.Fatalf("saturday has no data and must be absent")
	}
}

func TestWindowAllocatorRejectsLength(t *testing.T) {
	ix := consumption.NewIndex(nil)
	if _, err := NewWindowAllocator(ix).Allocate([]string{"A"}, []string{model.Monday}, 0); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow got %v", err)
	}
}

func TestSelectIsGreedyByConsumption(t *testing.T) {
	cands := []Candidate{
		{Day: model.Monday, Hour: "01:00", EnergyKWh: 10, Cost: 10, Appliance: "A"},
		{Day: model.Monday, Hour: "02:00", EnergyKWh: 5, Cost: 5, Appliance: "A"},
	}
	got := Select(cands, 12)
	if len(got) != 1 || got[0].Cost != 5 {
		t.Fatalf("expected only the 5-cost candidate, got %v", got)
	}
}

func TestSelectStableOnTies(t *testing.T) {
	cands := []Candidate{
		{Day: model.Monday, Hour: "05:00", EnergyKWh: 1, Cost: 1, Appliance: "A"},
		{Day: model.Monday, Hour: "01:00", EnergyKWh: 1, Cost: 1, Appliance: "B"},
	}
	got := Select(cands, 1)
	if len(got) != 1 || got[0].Appliance != "A" {
		t.Fatalf("expected generation order to break ties, got %v", got)
	}
}

func TestSelectNeverExceedsBudget(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for iter := 0; iter < 500; iter++ {
		n := rng.Intn(40)
		cands := make([]Candidate, n)
		for i := range cands {
			e := rng.Float64() * 3
			cands[i] = Candidate{EnergyKWh: e, Cost: e * 1400}
		}
		remaining := rng.Float64() * 10000
		spent := 0.0
		for _, c := range Select(cands, remaining) {
			spent += c.Cost
		}
		if spent > remaining {
			t.Fatalf("iteration %d: spent %v over %v", iter, spent, remaining)
		}
	}
}

func TestFillNoBudget(t *testing.T) {
	ix := consumption.NewIndex(constantDataset(0.1, "Lighting"))
	f := NewBudgetFiller(ix, 1400, nil)
	if res := f.Fill([]string{"Lighting"}, 100, 100); len(res) != 0 {
		t.Fatalf("expected empty result got %v", res)
	}
	if res := f.Fill([]string{"Lighting"}, 100, 150); len(res) != 0 {
		t.Fatalf("expected empty result got %v", res)
	}
}

func TestFillPrefilterAndSort(t *testing.T) {
	recs := []model.ConsumptionRecord{
		{Appliance: "A", Day: model.Monday, Time: "09:00", EnergyKWh: 3},
		{Appliance: "A", Day: model.Monday, Time: "20:00", EnergyKWh: 1},
		{Appliance: "A", Day: model.Monday, Time: "03:00", EnergyKWh: 2},
		{Appliance: "A", Day: model.Tuesday, Time: "10:00", EnergyKWh: 50},
	}
	ix := consumption.NewIndex(recs)
	f := NewBudgetFiller(ix, 1, nil)
	if n := len(f.Candidates([]string{"A"}, 10)); n != 3 {
		t.Fatalf("expected 3 candidates within budget got %d", n)
	}
	res := f.Fill([]string{"A"}, 9, 4)
	mon := res[model.Monday]
	want := []model.Slot{
		{Hour: "03:00", EnergyKWh: 2, Appliance: "A"},
		{Hour: "20:00", EnergyKWh: 1, Appliance: "A"},
	}
	if !reflect.DeepEqual(mon, want) {
		t.Fatalf("unexpected slots %v", mon)
	}
	if _, ok := res[model.Tuesday]; ok {
		t.Fatal("tuesday candidate exceeds the remaining budget")
	}
}

func TestOptimizeRefrigeratorPriorityCost(t *testing.T) {
	opt, err := New(constantDataset(0.1, "Refrigerator"), Config{}, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	res, err := opt.Optimize(model.Request{PriorityAppliances: []string{"Refrigerator"}, PriorityStart: 0, PriorityEnd: 23, Budget: 0})
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if math.Abs(res.PriorityCost-23520) > 1e-6 {
		t.Fatalf("expected 23520 got %v", res.PriorityCost)
	}
	if math.Abs(res.TotalCost-23520) > 1e-6 {
		t.Fatalf("expected total 23520 got %v", res.TotalCost)
	}
	if len(res.Additional) != 0 || len(res.Scheduled) != 0 {
		t.Fatalf("unexpected extra usage %+v", res)
	}
}

func TestOptimizeStagesAndInvariant(t *testing.T) {
	recs := append(constantDataset(0.1, "Refrigerator"), constantDataset(0.5, "Lighting")...)
	recs = append(recs, series("Washing Machine", model.Saturday, 2, 1, 0.5, 0.5, 3)...)
	opt, err := New(recs, Config{RatePerKWh: 1000}, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	req := model.Request{
		PriorityAppliances:   []string{"Refrigerator"},
		PriorityStart:        22,
		PriorityEnd:          5,
		ScheduledAppliances:  []string{"Washing Machine"},
		ScheduledDays:        []string{model.Saturday},
		AdditionalAppliances: []string{"Lighting"},
		Budget:               10000,
	}
	res, err := opt.Optimize(req)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	// priority: 8 hours * 0.1 kWh * 7 days * 1000
	if math.Abs(res.PriorityCost-5600) > 1e-6 {
		t.Fatalf("unexpected priority cost %v", res.PriorityCost)
	}
	if math.Abs(res.ScheduledCost-1000) > 1e-6 {
		t.Fatalf("unexpected scheduled cost %v", res.ScheduledCost)
	}
	// 3400 left, each lighting hour costs 500
	additionalSlots := 0
	for _, s := range res.Additional {
		additionalSlots += len(s)
	}
	if additionalSlots != 6 {
		t.Fatalf("expected 6 additional slots got %d", additionalSlots)
	}
	if res.TotalCost > req.Budget {
		t.Fatalf("total %v over budget", res.TotalCost)
	}
	var kwh float64
	for _, p := range res.Priority {
		kwh += p.TotalKWh
	}
	for _, s := range res.Scheduled {
		kwh += model.SlotEnergy(s)
	}
	for _, s := range res.Additional {
		kwh += model.SlotEnergy(s)
	}
	if math.Abs(res.TotalCost-kwh*1000) > 1e-6 {
		t.Fatalf("total %v does not match energy %v", res.TotalCost, kwh)
	}
}

func TestOptimizeIdempotent(t *testing.T) {
	recs := append(constantDataset(0.3, "HVAC"), constantDataset(0.05, "Electronics")...)
	opt, err := New(recs, Config{}, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	req := model.Request{
		PriorityAppliances:   []string{"HVAC"},
		PriorityStart:        18,
		PriorityEnd:          20,
		ScheduledAppliances:  []string{"Electronics"},
		ScheduledDays:        []string{model.Monday, model.Sunday},
		AdditionalAppliances: []string{"Electronics", "HVAC"},
		Budget:               50000,
	}
	first, err := opt.Optimize(req)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	second, err := opt.Optimize(req)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatalf("results differ between runs")
	}
}

func TestOptimizeRejectsInvalidInput(t *testing.T) {
	opt, err := New(constantDataset(0.1, "Refrigerator"), Config{}, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := opt.Optimize(model.Request{PriorityStart: 25}); !errors.Is(err, ErrInvalidHour) {
		t.Fatalf("expected ErrInvalidHour got %v", err)
	}
	_, err = opt.Optimize(model.Request{Budget: -5})
	if !errors.Is(err, ErrInvalidBudget) {
		t.Fatalf("expected ErrInvalidBudget got %v", err)
	}
	if !IsInvalidInput(err) || IsInvalidInput(errors.New("disk full")) {
		t.Fatalf("IsInvalidInput misclassified errors")
	}
}

func TestNewRejectsConfig(t *testing.T) {
	if _, err := New(nil, Config{RatePerKWh: -1}, nil); !errors.Is(err, ErrInvalidRate) {
		t.Fatalf("expected ErrInvalidRate got %v", err)
	}
	if _, err := New(nil, Config{WindowHours: -2}, nil); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow got %v", err)
	}
	opt, err := New(nil, Config{}, nil)
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if opt.Config().RatePerKWh != 1400 || opt.Config().WindowHours != 2 {
		t.Fatalf("unexpected defaults %+v", opt.Config())
	}
}

package consumption

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/powerplan/core/model"
)

func sampleRecords() []model.ConsumptionRecord {
	return []model.ConsumptionRecord{
		{Appliance: "HVAC", Day: "Monday", Time: "10:00:00", EnergyKWh: 1.5},
		{Appliance: "HVAC", Day: "Monday", Time: "02:00:00", EnergyKWh: 0.5},
		{Appliance: "HVAC", Day: "Tuesday", Time: "02:00:00", EnergyKWh: 0.7},
		{Appliance: "Lighting", Day: "Monday", Time: "20:00:00", EnergyKWh: 0.2},
		{Appliance: "HVAC", Day: "Monday", Time: "05:00:00", EnergyKWh: 0.9},
	}
}

func TestLookupPreservesRowOrder(t *testing.T) {
	ix := NewIndex(sampleRecords())
	u := ix.Lookup("HVAC", "Monday")
	require.Equal(t, 3, u.Len())
	assert.Equal(t, []Entry{
		{Hour: "10:00", EnergyKWh: 1.5},
		{Hour: "02:00", EnergyKWh: 0.5},
		{Hour: "05:00", EnergyKWh: 0.9},
	}, u.Entries())
	v, ok := u.Get("02:00")
	assert.True(t, ok)
	assert.Equal(t, 0.5, v)
	_, ok = u.Get("03:00")
	assert.False(t, ok)
}

func TestLookupMissingIsCached(t *testing.T) {
	ix := NewIndex(sampleRecords())
	first := ix.Lookup("Toaster", "Monday")
	assert.Equal(t, 0, first.Len())
	second := ix.Lookup("Toaster", "Monday")
	assert.Same(t, first, second)
	assert.Equal(t, 1, ix.Scans())
	assert.Equal(t, 1, ix.Len())
}

func TestLookupMemoizes(t *testing.T) {
	ix := NewIndex(sampleRecords())
	a := ix.Lookup("HVAC", "Monday")
	b := ix.Lookup("HVAC", "Monday")
	assert.Same(t, a, b)
	ix.Lookup("HVAC", "Tuesday")
	assert.Equal(t, 2, ix.Scans())
	assert.Equal(t, 5, ix.Records())
}

func TestLookupDuplicateHourKeepsPosition(t *testing.T) {
	ix := NewIndex([]model.ConsumptionRecord{
		{Appliance: "A", Day: "Monday", Time: "01:00", EnergyKWh: 1},
		{Appliance: "A", Day: "Monday", Time: "02:00", EnergyKWh: 2},
		{Appliance: "A", Day: "Monday", Time: "01:00", EnergyKWh: 3},
	})
	u := ix.Lookup("A", "Monday")
	assert.Equal(t, []Entry{{Hour: "01:00", EnergyKWh: 3}, {Hour: "02:00", EnergyKWh: 2}}, u.Entries())
}

func TestEntriesReturnsCopy(t *testing.T) {
	ix := NewIndex(sampleRecords())
	e := ix.Lookup("HVAC", "Monday").Entries()
	e[0].EnergyKWh = 100
	v, _ := ix.Lookup("HVAC", "Monday").Get("10:00")
	assert.Equal(t, 1.5, v)
}

func TestLookupConcurrent(t *testing.T) {
	ix := NewIndex(sampleRecords())
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, d := range model.Weekdays {
				ix.Lookup("HVAC", d)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, len(model.Weekdays), ix.Scans())
}

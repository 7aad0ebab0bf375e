package estimate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	e, err := Compute(500, 1400, 4)
	require.NoError(t, err)
	require.Len(t, e.Lines, 4)

	want := []Line{
		{Period: "hour", EnergyKWh: 0.5, Cost: 700},
		{Period: "day", EnergyKWh: 2, Cost: 2800},
		{Period: "month", EnergyKWh: 60, Cost: 84000},
		{Period: "year", EnergyKWh: 730, Cost: 1022000},
	}
	for i, w := range want {
		assert.Equal(t, w.Period, e.Lines[i].Period)
		assert.InDelta(t, w.EnergyKWh, e.Lines[i].EnergyKWh, 1e-9)
		assert.InDelta(t, w.Cost, e.Lines[i].Cost, 1e-6)
	}
}

func TestComputeInvalid(t *testing.T) {
	cases := [][3]float64{
		{0, 1400, 1},
		{100, -1, 1},
		{100, 1400, 0},
		{math.NaN(), 1400, 1},
		{100, math.Inf(1), 1},
	}
	for _, c := range cases {
		_, err := Compute(c[0], c[1], c[2])
		assert.ErrorIs(t, err, ErrInvalidInput, "%v", c)
	}
}

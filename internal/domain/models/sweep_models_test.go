package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRangeValues(t *testing.T) {
	cases := []struct {
		name string
		r    Range
		want []float64
	}{
		{"восходящий", Range{Start: 100, Stop: 120, Step: 10}, []float64{100, 110, 120}},
		{"нисходящий", Range{Start: 3, Stop: 1, Step: -1}, []float64{3, 2, 1}},
		{"одна точка", Range{Start: 5, Stop: 5, Step: 1}, []float64{5}},
		{"дробный шаг", Range{Start: 0, Stop: 1, Step: 0.25}, []float64{0, 0.25, 0.5, 0.75, 1}},
		{"нулевой шаг", Range{Start: 1, Stop: 2, Step: 0}, nil},
		{"направление не совпадает", Range{Start: 1, Stop: 2, Step: -1}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.r.Values()
			require.Len(t, got, len(tc.want))
			for i := range tc.want {
				require.InDelta(t, tc.want[i], got[i], 1e-9, "Точка %d", i)
			}
		})
	}
}

func TestRangeValuesAvoidRoundingDrift(t *testing.T) {
	// Шаг 0.1 не представим в двоичной системе точно; число точек не должно
	// плавать из-за накопления ошибки
	r := Range{Start: 0, Stop: 1, Step: 0.1}
	require.Equal(t, 11, r.Count())
	vals := r.Values()
	require.InDelta(t, 1.0, vals[len(vals)-1], 1e-9)
}

func TestSweepPlanValidate(t *testing.T) {
	valid := SweepPlan{
		Voltage:  Range{Start: 100, Stop: 120, Step: 10},
		Current:  Range{Start: 1, Stop: 3, Step: 1},
		Limits:   SafetyLimits{MaxVoltage: 300, MaxCurrent: 10, MaxPower: 5000, Frequency: 50, CrestFactor: 1.414, PowerFactor: 1},
		Readback: Readback{Retries: 3, Tolerance: 0.1},
	}
	require.NoError(t, valid.Validate())

	broken := valid
	broken.Limits.CrestFactor = 0.5
	require.Error(t, broken.Validate())

	broken = valid
	broken.Limits.PowerFactor = 1.5
	require.Error(t, broken.Validate())

	broken = valid
	broken.Readback.Retries = 0
	require.Error(t, broken.Validate())

	broken = valid
	broken.Settle = -1
	require.Error(t, broken.Validate())
}

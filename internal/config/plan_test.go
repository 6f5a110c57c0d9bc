package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/iwtcode/benchService/pkg/errors"
	"github.com/stretchr/testify/require"
)

func writePlanFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadPlanAppliesDefaults(t *testing.T) {
	path := writePlanFile(t, `
voltage:
  start: 100
  stop: 120
  step: 10
current:
  start: 1
  stop: 3
  step: 1
settle_s: 1.5
limits:
  max_voltage: 300
  max_current: 10
  max_power: 5000
`)

	plan, err := LoadPlan(path)
	require.NoError(t, err)

	require.Equal(t, 1500*time.Millisecond, plan.Settle)
	require.Equal(t, "V", plan.Voltage.Unit)
	require.Equal(t, "A", plan.Current.Unit)
	require.InDelta(t, 1.414, plan.Limits.CrestFactor, 0.0001)
	require.InDelta(t, 1.0, plan.Limits.PowerFactor, 0.0001)
	require.InDelta(t, 50.0, plan.Limits.Frequency, 0.0001)
	require.Equal(t, 3, plan.Readback.Retries)
	require.InDelta(t, 0.1, plan.Readback.Tolerance, 0.0001)
	require.Equal(t, 3, plan.Voltage.Count())
	require.Equal(t, 3, plan.Current.Count())
}

func TestLoadPlanDescendingSweep(t *testing.T) {
	path := writePlanFile(t, `
voltage:
  start: 120
  stop: 100
  step: -10
current:
  start: 1
  stop: 1
  step: 1
limits:
  max_voltage: 300
  max_current: 10
  max_power: 5000
`)

	plan, err := LoadPlan(path)
	require.NoError(t, err)
	require.Equal(t, []float64{120, 110, 100}, plan.Voltage.Values())
}

func TestLoadPlanRejectsZeroStep(t *testing.T) {
	path := writePlanFile(t, `
voltage:
  start: 100
  stop: 120
  step: 0
current:
  start: 1
  stop: 3
  step: 1
limits:
  max_voltage: 300
  max_current: 10
  max_power: 5000
`)

	_, err := LoadPlan(path)
	require.Error(t, err)

	var cfgErr *apperrors.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "voltage.step", cfgErr.Field)
}

func TestLoadPlanRejectsInconsistentDirection(t *testing.T) {
	path := writePlanFile(t, `
voltage:
  start: 100
  stop: 120
  step: -10
current:
  start: 1
  stop: 3
  step: 1
limits:
  max_voltage: 300
  max_current: 10
  max_power: 5000
`)

	_, err := LoadPlan(path)
	require.Error(t, err)

	var cfgErr *apperrors.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "voltage.step", cfgErr.Field)
}

func TestLoadPlanRejectsMissingLimits(t *testing.T) {
	path := writePlanFile(t, `
voltage:
  start: 100
  stop: 120
  step: 10
current:
  start: 1
  stop: 3
  step: 1
`)

	_, err := LoadPlan(path)
	require.Error(t, err)

	var cfgErr *apperrors.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "limits", cfgErr.Field)
}

func TestLoadPlanMissingFile(t *testing.T) {
	_, err := LoadPlan(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadPlanMalformedYaml(t *testing.T) {
	path := writePlanFile(t, "voltage: [not a mapping")
	_, err := LoadPlan(path)
	require.Error(t, err)
}

package observability

import (
	"testing"

	"github.com/iwtcode/benchService/internal/domain/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestBenchMetricsCountsSteps(t *testing.T) {
	m := NewBenchMetrics()

	require.NoError(t, m.Append(models.StepRecord{Status: models.StepOk, PowerMeas: 240}))
	require.NoError(t, m.Append(models.StepRecord{Status: models.StepOk, PowerMeas: 480}))
	require.NoError(t, m.Append(models.StepRecord{Status: models.StepFaulted}))

	require.InDelta(t, 3, testutil.ToFloat64(m.stepsTotal), 0.001)
	require.InDelta(t, 1, testutil.ToFloat64(m.faultsTotal), 0.001)
	require.Equal(t, 1, testutil.CollectAndCount(m.stepPowerW, "bench_step_power_watts"))

	require.NoError(t, m.Finalize(models.RunOutcome{Result: models.RunCompleted}))
	require.NoError(t, m.Finalize(models.RunOutcome{Result: models.RunFailed}))

	require.InDelta(t, 1, testutil.ToFloat64(m.runsTotal.WithLabelValues("completed")), 0.001)
	require.InDelta(t, 1, testutil.ToFloat64(m.runsTotal.WithLabelValues("failed")), 0.001)
}

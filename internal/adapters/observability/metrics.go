package observability

import (
	"github.com/iwtcode/benchService/internal/domain/models"
	"github.com/prometheus/client_golang/prometheus"
)

// BenchMetrics - счетчики Prometheus по прогонам и точкам развёртки.
// Реализует контракт приемника результатов, так что движок кормит метрики
// тем же потоком записей, что и остальные приемники.
type BenchMetrics struct {
	stepsTotal  prometheus.Counter
	faultsTotal prometheus.Counter
	runsTotal   *prometheus.CounterVec
	stepPowerW  prometheus.Histogram
}

func NewBenchMetrics() *BenchMetrics {
	steps := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bench_steps_total",
		Help: "Total sweep step records produced.",
	})
	faults := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bench_step_faults_total",
		Help: "Sweep step records flagged as faulted.",
	})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bench_runs_total",
		Help: "Finished sweep runs by outcome.",
	}, []string{"result"})
	power := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bench_step_power_watts",
		Help:    "Measured power per sweep step.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})

	prometheus.MustRegister(steps, faults, runs, power)

	return &BenchMetrics{
		stepsTotal:  steps,
		faultsTotal: faults,
		runsTotal:   runs,
		stepPowerW:  power,
	}
}

func (m *BenchMetrics) Append(rec models.StepRecord) error {
	m.stepsTotal.Inc()
	if rec.Status == models.StepFaulted {
		m.faultsTotal.Inc()
	} else {
		m.stepPowerW.Observe(rec.PowerMeas)
	}
	return nil
}

func (m *BenchMetrics) Finalize(outcome models.RunOutcome) error {
	m.runsTotal.WithLabelValues(string(outcome.Result)).Inc()
	return nil
}

package bench_service

import (
	"time"

	"github.com/iwtcode/benchService/internal/domain/models"
	"github.com/iwtcode/benchService/internal/interfaces"
	"github.com/iwtcode/benchService/internal/middleware/logging"
)

// EngineState - состояние конечного автомата прогона.
type EngineState int

const (
	StateIdle EngineState = iota
	StateSourceUp
	StateLoadUp
	StateSweeping
	StateShuttingDown
	StateDone
)

func (s EngineState) String() string {
	switch s {
	case StateSourceUp:
		return "source_up"
	case StateLoadUp:
		return "load_up"
	case StateSweeping:
		return "sweeping"
	case StateShuttingDown:
		return "shutting_down"
	case StateDone:
		return "done"
	default:
		return "idle"
	}
}

// Engine выполняет вложенную V-I развёртку: внешний цикл по напряжению,
// внутренний по току. Весь обмен с приборами идет в одном потоке управления:
// шаг полностью завершается (команда отправлена, ответ подтвержден) до
// начала следующего. Из любого исхода - успех, отказ прибора, запрос
// оператора - движок доходит до фазы останова и гасит оба прибора.
type Engine struct {
	plan    models.SweepPlan
	source  interfaces.SourceController
	load    interfaces.LoadController
	abort   interfaces.AbortMonitor
	sink    interfaces.ResultSink
	logger  *logging.Logger
	sleep   func(time.Duration)
	state   EngineState
	records int
}

func NewEngine(
	plan models.SweepPlan,
	source interfaces.SourceController,
	load interfaces.LoadController,
	abort interfaces.AbortMonitor,
	sink interfaces.ResultSink,
	logger *logging.Logger,
) *Engine {
	return &Engine{
		plan:   plan,
		source: source,
		load:   load,
		abort:  abort,
		sink:   sink,
		logger: logger.WithPrefix("ENGINE"),
		sleep:  time.Sleep,
		state:  StateIdle,
	}
}

// State возвращает текущее состояние автомата.
func (e *Engine) State() EngineState { return e.state }

// Run выполняет прогон от включения приборов до их гарантированного
// отключения и возвращает итог.
func (e *Engine) Run() models.RunOutcome {
	outcome := models.RunOutcome{Result: models.RunCompleted}

	e.transition(StateSourceUp)
	if err := e.source.BringUp(); err != nil {
		e.logger.Error("Source bring-up failed", "error", err)
		outcome.Result = models.RunFailed
		outcome.Cause = err.Error()
		return e.shutdown(outcome)
	}

	e.transition(StateLoadUp)
	if err := e.load.BringUp(); err != nil {
		e.logger.Error("Load bring-up failed", "error", err)
		outcome.Result = models.RunFailed
		outcome.Cause = err.Error()
		return e.shutdown(outcome)
	}

	e.transition(StateSweeping)
	volts := e.plan.Voltage.Values()
	amps := e.plan.Current.Values()

sweep:
	for vi, v := range volts {
		outcome.VoltIndex = vi

		if _, err := e.source.SetVoltage(v); err != nil {
			e.logger.Error("Voltage step failed", "volt_index", vi, "commanded", v, "error", err)
			outcome.Result = models.RunFailed
			outcome.Cause = err.Error()
			break sweep
		}

		if e.abort.Requested() {
			outcome.Result = models.RunAborted
			break sweep
		}

		for ii, i := range amps {
			outcome.CurrIndex = ii

			if err := e.load.SetCurrent(i); err != nil {
				e.logger.Error("Current step failed", "volt_index", vi, "curr_index", ii, "commanded", i, "error", err)
				e.emit(faultedRecord(vi, ii, v, i))
				outcome.Result = models.RunFailed
				outcome.Cause = err.Error()
				break sweep
			}

			e.sleep(e.plan.Settle)

			rec, err := e.measureStep(vi, ii, v, i)
			e.emit(rec)
			if err != nil {
				e.logger.Error("Measurement failed", "volt_index", vi, "curr_index", ii, "error", err)
				outcome.Result = models.RunFailed
				outcome.Cause = err.Error()
				break sweep
			}

			if e.abort.Requested() {
				e.logger.Warn("Abort requested by operator", "volt_index", vi, "curr_index", ii)
				outcome.Result = models.RunAborted
				break sweep
			}
		}
	}

	return e.shutdown(outcome)
}

// measureStep снимает показания с обоих приборов и собирает строку
// результата. Ошибка обмена дает строку со статусом faulted.
func (e *Engine) measureStep(vi, ii int, vSet, iSet float64) (models.StepRecord, error) {
	rec := models.StepRecord{
		VoltIndex:  vi,
		CurrIndex:  ii,
		VoltSet:    vSet,
		CurrSet:    iSet,
		Status:     models.StepOk,
		RecordedAt: time.Now(),
	}

	vMeas, err := e.source.MeasureVoltage()
	if err != nil {
		rec.Status = models.StepFaulted
		return rec, err
	}
	m, err := e.load.Measure()
	if err != nil {
		rec.Status = models.StepFaulted
		return rec, err
	}

	rec.VoltMeas = vMeas
	rec.CurrMeas = m.Current
	rec.PowerMeas = m.Power
	return rec, nil
}

func (e *Engine) emit(rec models.StepRecord) {
	if err := e.sink.Append(rec); err != nil {
		e.logger.Error("Result sink rejected step record", "volt_index", rec.VoltIndex, "curr_index", rec.CurrIndex, "error", err)
	}
	e.records++
}

// shutdown - терминальная фаза безопасности: сначала снимается нагрузка,
// затем гасится источник, чтобы не ронять напряжение под активным
// потреблением. Обе операции выполняются всегда; их ошибки журналируются
// и не прерывают останов.
func (e *Engine) shutdown(outcome models.RunOutcome) models.RunOutcome {
	e.transition(StateShuttingDown)

	if err := e.load.BringDown(); err != nil {
		e.logger.Error("Load bring-down failed", "error", err)
	}
	if err := e.source.BringDown(); err != nil {
		e.logger.Error("Source bring-down failed", "error", err)
	}

	outcome.Steps = e.records
	if err := e.sink.Finalize(outcome); err != nil {
		e.logger.Error("Result sink finalize failed", "error", err)
	}

	e.transition(StateDone)
	e.logger.Info("Run finished",
		"result", outcome.Result,
		"steps", outcome.Steps,
		"volt_index", outcome.VoltIndex,
		"curr_index", outcome.CurrIndex,
	)
	return outcome
}

func (e *Engine) transition(next EngineState) {
	e.logger.Debug("State transition", "from", e.state, "to", next)
	e.state = next
}

func faultedRecord(vi, ii int, vSet, iSet float64) models.StepRecord {
	return models.StepRecord{
		VoltIndex:  vi,
		CurrIndex:  ii,
		VoltSet:    vSet,
		CurrSet:    iSet,
		Status:     models.StepFaulted,
		RecordedAt: time.Now(),
	}
}

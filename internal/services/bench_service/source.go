package bench_service

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/iwtcode/benchService/internal/domain/models"
	"github.com/iwtcode/benchService/internal/interfaces"
	"github.com/iwtcode/benchService/internal/middleware/logging"
	apperrors "github.com/iwtcode/benchService/pkg/errors"
)

const (
	// Паузы стабилизации источника. Релейный выход NHR включается около
	// двух секунд, смена уставки напряжения требует заметно меньше.
	outputSettle      = 2 * time.Second
	voltageSettle     = 1500 * time.Millisecond
	rampDownSettle    = 1 * time.Second
	confirmRetryDelay = 200 * time.Millisecond
)

// SourceController управляет сетевым имитатором NHR 9400 в течение одного
// прогона. Владеет транспортом монопольно: никакой другой поток не шлет
// команды источнику, пока прогон не завершен.
type SourceController struct {
	transport  interfaces.Transport
	logger     *logging.Logger
	instrument int
	limits     models.SafetyLimits
	readback   models.Readback
	startVolt  float64
	mode       models.SessionMode
	setpoint   float64
	sleep      func(time.Duration)
}

func NewSourceController(t interfaces.Transport, instrument int, plan models.SweepPlan, logger *logging.Logger) *SourceController {
	return &SourceController{
		transport:  t,
		logger:     logger.WithPrefix("SOURCE"),
		instrument: instrument,
		limits:     plan.Limits,
		readback:   plan.Readback,
		startVolt:  plan.Voltage.Start,
		mode:       models.ModeUninitialized,
		sleep:      time.Sleep,
	}
}

func (c *SourceController) Mode() models.SessionMode { return c.mode }

// BringUp выбирает инструмент внутри шасси, выставляет защитные пределы,
// задает стартовое напряжение и включает выход. Включение подтверждается
// обратным чтением измеренного напряжения.
func (c *SourceController) BringUp() error {
	setup := []string{
		fmt.Sprintf("INSTrument:NSELect %d", c.instrument),
		fmt.Sprintf("SOURce:CURRent %g", c.limits.MaxCurrent),
		fmt.Sprintf("SOURce:POWer %g", c.limits.MaxPower),
		fmt.Sprintf("SOURce:VOLTage:LIMit %g", c.limits.MaxVoltage),
		fmt.Sprintf("SOURce:FREQuency %g", c.limits.Frequency),
	}
	for _, cmd := range setup {
		if err := c.transport.Send(cmd); err != nil {
			c.mode = models.ModeFaulted
			return c.fault(cmd, err)
		}
	}

	if safety, err := c.transport.Query("SOURce:SAFety?"); err == nil {
		c.logger.Info("Source safety limits", "values", safety)
	} else {
		c.logger.Warn("Failed to query source safety limits", "error", err)
	}
	c.mode = models.ModeConfigured

	cmd := fmt.Sprintf("VOLTage %g", c.startVolt)
	if err := c.transport.Send(cmd); err != nil {
		c.mode = models.ModeFaulted
		return c.fault(cmd, err)
	}
	c.setpoint = c.startVolt

	if err := c.transport.Send("OUTPut ON"); err != nil {
		c.mode = models.ModeFaulted
		return c.fault("OUTPut ON", err)
	}
	c.mode = models.ModeEnergized
	c.sleep(outputSettle)

	if _, err := c.confirmVoltage(c.startVolt); err != nil {
		c.mode = models.ModeFaulted
		return err
	}

	c.logger.Info("Source energized", "instrument", c.instrument, "start_voltage", c.startVolt)
	return nil
}

// SetVoltage задает напряжение и возвращает измеренное значение после
// подтверждения уставки.
func (c *SourceController) SetVoltage(v float64) (float64, error) {
	cmd := fmt.Sprintf("VOLTage %g", v)
	if err := c.transport.Send(cmd); err != nil {
		c.mode = models.ModeFaulted
		return 0, c.fault(cmd, err)
	}
	c.setpoint = v
	c.sleep(voltageSettle)

	meas, err := c.confirmVoltage(v)
	if err != nil {
		c.mode = models.ModeFaulted
		return 0, err
	}
	c.logger.Debug("Voltage set", "commanded", v, "measured", meas)
	return meas, nil
}

// MeasureVoltage возвращает измеренное источником действующее напряжение.
func (c *SourceController) MeasureVoltage() (float64, error) {
	resp, err := c.transport.Query("MEASure:VOLTage?")
	if err != nil {
		return math.NaN(), c.fault("MEASure:VOLTage?", err)
	}
	return parseMeasurement(resp), nil
}

// BringDown снимает напряжение и выключает выход. Безопасен при повторных
// вызовах и из любого режима сессии; ошибка возвращается только для журнала.
func (c *SourceController) BringDown() error {
	if c.mode == models.ModeUninitialized || c.mode == models.ModeDisabled {
		return nil
	}

	var firstErr error
	if err := c.transport.Send("VOLTage 0"); err != nil {
		firstErr = c.fault("VOLTage 0", err)
	}
	c.sleep(rampDownSettle)
	if err := c.transport.Send("OUTPut OFF"); err != nil {
		if firstErr == nil {
			firstErr = c.fault("OUTPut OFF", err)
		}
	}

	c.setpoint = 0
	if firstErr != nil {
		c.mode = models.ModeFaulted
		return firstErr
	}
	c.mode = models.ModeDisabled
	c.logger.Info("Source output disabled")
	return nil
}

// confirmVoltage сверяет измеренное напряжение с уставкой в пределах допуска,
// повторяя чтение ограниченное число раз.
func (c *SourceController) confirmVoltage(want float64) (float64, error) {
	var lastGot float64
	for attempt := 1; attempt <= c.readback.Retries; attempt++ {
		resp, err := c.transport.Query("MEASure:VOLTage?")
		if err != nil {
			return 0, c.fault("MEASure:VOLTage?", err)
		}
		got, perr := strconv.ParseFloat(resp, 64)
		if perr == nil {
			if math.Abs(got-want) <= c.readback.Tolerance {
				return got, nil
			}
			lastGot = got
		}
		if attempt < c.readback.Retries {
			c.sleep(confirmRetryDelay)
		}
	}
	return 0, &apperrors.InstrumentFault{
		Instrument: "source",
		Command:    "VOLTage",
		Want:       want,
		Got:        lastGot,
		Attempts:   c.readback.Retries,
	}
}

func (c *SourceController) fault(cmd string, err error) error {
	return &apperrors.InstrumentFault{Instrument: "source", Command: cmd, Err: err}
}

// parseMeasurement переводит ответ прибора в число; нечитаемый ответ дает
// NaN в строке результатов, а не отказ прогона.
func parseMeasurement(resp string) float64 {
	v, err := strconv.ParseFloat(resp, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

package bench_service

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/iwtcode/benchService/internal/domain/models"
	"github.com/iwtcode/benchService/internal/interfaces"
	"github.com/iwtcode/benchService/internal/middleware/logging"
	apperrors "github.com/iwtcode/benchService/pkg/errors"
)

const (
	resetSettle   = 2 * time.Second
	modeSettle    = 500 * time.Millisecond
	currentSettle = 1 * time.Second

	// Запас пикового предела над действующим значением тока и нижний
	// порог при нулевой уставке. Без пиковой команды нагрузка вообще не
	// начинает принимать мощность.
	peakHeadroom = 1.5
	peakFloor    = 0.1
)

// deviceClearer - транспорт, умеющий selected device clear (GPIB-шлюз).
type deviceClearer interface {
	Clear() error
}

// LoadController управляет электронной нагрузкой Chroma 63804 в течение
// одного прогона. Нагрузка работает только в режиме AC crest factor:
// режим постоянного тока на этом стенде осциллирует и запрещен.
type LoadController struct {
	transport interfaces.Transport
	logger    *logging.Logger
	limits    models.SafetyLimits
	readback  models.Readback
	mode      models.SessionMode
	setpoint  float64
	sleep     func(time.Duration)
}

func NewLoadController(t interfaces.Transport, plan models.SweepPlan, logger *logging.Logger) *LoadController {
	return &LoadController{
		transport: t,
		logger:    logger.WithPrefix("LOAD"),
		limits:    plan.Limits,
		readback:  plan.Readback,
		mode:      models.ModeUninitialized,
		sleep:     time.Sleep,
	}
}

func (c *LoadController) Mode() models.SessionMode { return c.mode }

// BringUp настраивает нагрузку строго в два этапа: сначала режим и пределы,
// затем включение входа. Обратный порядок оставляет нагрузку слепой к
// напряжению источника.
func (c *LoadController) BringUp() error {
	if clr, ok := c.transport.(deviceClearer); ok {
		if err := clr.Clear(); err != nil {
			c.logger.Warn("Device clear failed", "error", err)
		}
	}

	if err := c.transport.Send("*RST"); err != nil {
		c.mode = models.ModeFaulted
		return c.fault("*RST", err)
	}
	c.sleep(resetSettle)
	if err := c.transport.Send("*CLS"); err != nil {
		c.mode = models.ModeFaulted
		return c.fault("*CLS", err)
	}

	// Этап 1: режим и пределы
	setup := []string{
		"MODE ACF",
		fmt.Sprintf("CFACTor %g", c.limits.CrestFactor),
		fmt.Sprintf("PFACtor %g", c.limits.PowerFactor),
		fmt.Sprintf("CURRent:PEAK:MAXimum:AC %g", c.limits.MaxCurrent*peakHeadroom),
	}
	for i, cmd := range setup {
		if err := c.transport.Send(cmd); err != nil {
			c.mode = models.ModeFaulted
			return c.fault(cmd, err)
		}
		if i == 0 {
			c.sleep(modeSettle) // смене режима нужно время
		}
	}

	errResp, err := c.transport.Query("SYSTem:ERRor?")
	if err != nil {
		c.mode = models.ModeFaulted
		return c.fault("SYSTem:ERRor?", err)
	}
	if !errorResponseOk(errResp) {
		c.mode = models.ModeFaulted
		return &apperrors.InstrumentFault{
			Instrument: "load",
			Command:    "SYSTem:ERRor?",
			Err:        fmt.Errorf("load reported an error during setup: %s", errResp),
		}
	}

	if idn, err := c.transport.Query("*IDN?"); err == nil {
		c.logger.Info("Load identified", "idn", idn)
	} else {
		c.logger.Warn("Failed to query load identity", "error", err)
	}
	c.mode = models.ModeConfigured

	// Этап 2: включение входа
	if err := c.transport.Send("LOAD ON"); err != nil {
		c.mode = models.ModeFaulted
		return c.fault("LOAD ON", err)
	}
	status, err := c.transport.Query("LOAD:STATus?")
	if err != nil {
		c.mode = models.ModeFaulted
		return c.fault("LOAD:STATus?", err)
	}
	if status != "1" && status != "OK" {
		c.mode = models.ModeFaulted
		return &apperrors.InstrumentFault{
			Instrument: "load",
			Command:    "LOAD ON",
			Err:        fmt.Errorf("load input did not enable, status %q", status),
		}
	}
	c.mode = models.ModeEnergized

	c.logger.Info("Load energized", "crest_factor", c.limits.CrestFactor, "power_factor", c.limits.PowerFactor)
	return nil
}

// SetCurrent задает действующее значение тока и сразу же выставляет пиковый
// предел. Пиковая команда - триггер начала приема мощности и обязана
// следовать за уставкой RMS на каждом шаге, а не только при включении.
func (c *LoadController) SetCurrent(i float64) error {
	cmd := fmt.Sprintf("CURR %g", i)
	if err := c.transport.Send(cmd); err != nil {
		c.mode = models.ModeFaulted
		return c.fault(cmd, err)
	}

	peak := i * peakHeadroom
	if i <= 0 {
		peak = peakFloor
	}
	peakCmd := fmt.Sprintf("CURRent:PEAK:MAXimum:AC %g", peak)
	if err := c.transport.Send(peakCmd); err != nil {
		c.mode = models.ModeFaulted
		return c.fault(peakCmd, err)
	}

	c.setpoint = i
	c.sleep(currentSettle)

	if err := c.confirmCurrent(i); err != nil {
		c.mode = models.ModeFaulted
		return err
	}
	c.logger.Debug("Current set", "rms", i, "peak_limit", peak)
	return nil
}

// Measure возвращает мгновенные показания нагрузки: напряжение, ток, мощность.
func (c *LoadController) Measure() (models.Measurement, error) {
	var m models.Measurement
	queries := []struct {
		cmd string
		dst *float64
	}{
		{"MEASure:VOLTage?", &m.Voltage},
		{"MEASure:CURRent?", &m.Current},
		{"MEASure:POWer?", &m.Power},
	}
	for _, q := range queries {
		resp, err := c.transport.Query(q.cmd)
		if err != nil {
			return m, c.fault(q.cmd, err)
		}
		*q.dst = parseMeasurement(resp)
	}
	return m, nil
}

// BringDown выключает вход и сбрасывает прибор. Безопасен при повторных
// вызовах и из любого режима сессии; ошибка возвращается только для журнала.
func (c *LoadController) BringDown() error {
	if c.mode == models.ModeUninitialized || c.mode == models.ModeDisabled {
		return nil
	}

	var firstErr error
	for _, cmd := range []string{"LOAD OFF", "CURRent 0", "*RST"} {
		if err := c.transport.Send(cmd); err != nil && firstErr == nil {
			firstErr = c.fault(cmd, err)
		}
	}

	c.setpoint = 0
	if firstErr != nil {
		c.mode = models.ModeFaulted
		return firstErr
	}
	c.mode = models.ModeDisabled
	c.logger.Info("Load input disabled")
	return nil
}

func (c *LoadController) confirmCurrent(want float64) error {
	var lastGot float64
	for attempt := 1; attempt <= c.readback.Retries; attempt++ {
		resp, err := c.transport.Query("CURRent?")
		if err != nil {
			return c.fault("CURRent?", err)
		}
		got, perr := strconv.ParseFloat(resp, 64)
		if perr == nil {
			if math.Abs(got-want) <= c.readback.Tolerance {
				return nil
			}
			lastGot = got
		}
		if attempt < c.readback.Retries {
			c.sleep(confirmRetryDelay)
		}
	}
	return &apperrors.InstrumentFault{
		Instrument: "load",
		Command:    "CURR",
		Want:       want,
		Got:        lastGot,
		Attempts:   c.readback.Retries,
	}
}

func (c *LoadController) fault(cmd string, err error) error {
	return &apperrors.InstrumentFault{Instrument: "load", Command: cmd, Err: err}
}

// errorResponseOk трактует ответ SYSTem:ERRor? как отсутствие ошибки.
func errorResponseOk(resp string) bool {
	return resp == "0" || resp == "OK" || strings.HasPrefix(resp, "0,")
}

package models

import (
	"math"
	"time"

	apperrors "github.com/iwtcode/benchService/pkg/errors"
)

// Range описывает одну ось развёртки: от Start до Stop c шагом Step.
// Направление задается знаком шага.
type Range struct {
	Start float64 `json:"start" yaml:"start"`
	Stop  float64 `json:"stop" yaml:"stop"`
	Step  float64 `json:"step" yaml:"step"`
	Unit  string  `json:"unit" yaml:"unit"`
}

// Count возвращает число точек в диапазоне. Ноль означает пустой или
// некорректный диапазон.
func (r Range) Count() int {
	if r.Step == 0 {
		return 0
	}
	span := (r.Stop - r.Start) / r.Step
	if span < -1e-9 {
		return 0
	}
	return int(math.Floor(span+1e-9)) + 1
}

// Values материализует диапазон в упорядоченный список уставок. Точки
// вычисляются от Start, а не накоплением, чтобы не копить ошибку округления.
func (r Range) Values() []float64 {
	n := r.Count()
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = r.Start + float64(i)*r.Step
	}
	return out
}

// SafetyLimits - защитные пределы, выставляемые на приборах до включения.
type SafetyLimits struct {
	MaxVoltage  float64 `json:"max_voltage" yaml:"max_voltage"`   // В
	MaxCurrent  float64 `json:"max_current" yaml:"max_current"`   // А
	MaxPower    float64 `json:"max_power" yaml:"max_power"`       // Вт
	Frequency   float64 `json:"frequency" yaml:"frequency"`       // Гц
	CrestFactor float64 `json:"crest_factor" yaml:"crest_factor"` // CF нагрузки
	PowerFactor float64 `json:"power_factor" yaml:"power_factor"` // PF нагрузки
}

// Readback - параметры подтверждения уставок обратным чтением.
type Readback struct {
	Retries   int     `json:"retries" yaml:"retries"`
	Tolerance float64 `json:"tolerance" yaml:"tolerance"`
}

// SweepPlan - неизменяемое описание одного прогона: диапазоны напряжения и
// тока, пауза стабилизации на точке и защитные пределы. Передается в движок
// при создании и не меняется по ходу прогона.
type SweepPlan struct {
	Voltage  Range         `json:"voltage" yaml:"voltage"`
	Current  Range         `json:"current" yaml:"current"`
	Settle   time.Duration `json:"settle" yaml:"-"`
	Limits   SafetyLimits  `json:"limits" yaml:"limits"`
	Readback Readback      `json:"readback" yaml:"readback"`
}

// Validate проверяет план до какого-либо обращения к приборам.
func (p SweepPlan) Validate() error {
	if err := validateRange("voltage", p.Voltage); err != nil {
		return err
	}
	if err := validateRange("current", p.Current); err != nil {
		return err
	}
	if p.Settle < 0 {
		return apperrors.NewConfigurationError("settle", "must not be negative")
	}
	if p.Limits.MaxVoltage <= 0 || p.Limits.MaxCurrent <= 0 || p.Limits.MaxPower <= 0 {
		return apperrors.NewConfigurationError("limits", "max voltage, current and power must be positive")
	}
	if p.Limits.CrestFactor < 1 {
		return apperrors.NewConfigurationError("limits.crest_factor", "must be at least 1")
	}
	if p.Limits.PowerFactor <= 0 || p.Limits.PowerFactor > 1 {
		return apperrors.NewConfigurationError("limits.power_factor", "must be in (0, 1]")
	}
	if p.Readback.Retries < 1 {
		return apperrors.NewConfigurationError("readback.retries", "must be at least 1")
	}
	if p.Readback.Tolerance <= 0 {
		return apperrors.NewConfigurationError("readback.tolerance", "must be positive")
	}
	return nil
}

func validateRange(field string, r Range) error {
	if r.Step == 0 {
		return apperrors.NewConfigurationError(field+".step", "must not be zero")
	}
	if (r.Stop-r.Start)*r.Step < 0 {
		return apperrors.NewConfigurationError(field+".step", "sign inconsistent with sweep direction")
	}
	if r.Count() == 0 {
		return apperrors.NewConfigurationError(field, "produces an empty sequence")
	}
	return nil
}

// StepStatus - статус одной точки развёртки.
type StepStatus string

const (
	StepOk      StepStatus = "ok"
	StepSkipped StepStatus = "skipped"
	StepFaulted StepStatus = "faulted"
)

// StepRecord - одна строка результата: уставки, измерения и статус точки.
// Неизменяема после создания; порядок записей совпадает с порядком обхода.
type StepRecord struct {
	VoltIndex  int        `json:"volt_index"`
	CurrIndex  int        `json:"curr_index"`
	VoltSet    float64    `json:"volt_set"`
	CurrSet    float64    `json:"curr_set"`
	VoltMeas   float64    `json:"volt_meas"`
	CurrMeas   float64    `json:"curr_meas"`
	PowerMeas  float64    `json:"power_meas"`
	Status     StepStatus `json:"status"`
	RecordedAt time.Time  `json:"recorded_at"`
}

// RunResult - итоговый вердикт прогона.
type RunResult string

const (
	RunCompleted RunResult = "completed"
	RunAborted   RunResult = "aborted"
	RunFailed    RunResult = "failed"
)

// RunOutcome - терминальное состояние прогона: вердикт, достигнутая позиция
// в развёртке и причина отказа, если он был.
type RunOutcome struct {
	Result    RunResult `json:"result"`
	VoltIndex int       `json:"volt_index"`
	CurrIndex int       `json:"curr_index"`
	Steps     int       `json:"steps"`
	Cause     string    `json:"cause,omitempty"`
}

// SessionMode - режим сессии прибора на протяжении одного прогона.
type SessionMode int

const (
	ModeUninitialized SessionMode = iota
	ModeConfigured
	ModeEnergized
	ModeDisabled
	ModeFaulted
)

func (m SessionMode) String() string {
	switch m {
	case ModeConfigured:
		return "configured"
	case ModeEnergized:
		return "energized"
	case ModeDisabled:
		return "disabled"
	case ModeFaulted:
		return "faulted"
	default:
		return "uninitialized"
	}
}

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/iwtcode/benchService/internal/domain/models"
	"gopkg.in/yaml.v3"
)

// planFile - дисковое представление плана развёртки. Пауза стабилизации
// задается в секундах, в модель переводится в time.Duration.
type planFile struct {
	Voltage  models.Range        `yaml:"voltage"`
	Current  models.Range        `yaml:"current"`
	SettleS  float64             `yaml:"settle_s"`
	Limits   models.SafetyLimits `yaml:"limits"`
	Readback models.Readback     `yaml:"readback"`
}

// LoadPlan читает план развёртки из YAML-файла, подставляет значения по
// умолчанию и валидирует результат до какого-либо обращения к приборам.
func LoadPlan(path string) (models.SweepPlan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.SweepPlan{}, fmt.Errorf("не удалось прочитать файл плана '%s': %w", path, err)
	}

	var pf planFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return models.SweepPlan{}, fmt.Errorf("не удалось разобрать файл плана '%s': %w", path, err)
	}

	plan := models.SweepPlan{
		Voltage:  pf.Voltage,
		Current:  pf.Current,
		Settle:   time.Duration(pf.SettleS * float64(time.Second)),
		Limits:   pf.Limits,
		Readback: pf.Readback,
	}
	applyPlanDefaults(&plan)

	if err := plan.Validate(); err != nil {
		return models.SweepPlan{}, err
	}
	return plan, nil
}

func applyPlanDefaults(p *models.SweepPlan) {
	if p.Voltage.Unit == "" {
		p.Voltage.Unit = "V"
	}
	if p.Current.Unit == "" {
		p.Current.Unit = "A"
	}
	if p.Limits.CrestFactor == 0 {
		p.Limits.CrestFactor = 1.414
	}
	if p.Limits.PowerFactor == 0 {
		p.Limits.PowerFactor = 1.0
	}
	if p.Limits.Frequency == 0 {
		p.Limits.Frequency = 50
	}
	if p.Readback.Retries == 0 {
		p.Readback.Retries = 3
	}
	if p.Readback.Tolerance == 0 {
		p.Readback.Tolerance = 0.1
	}
}

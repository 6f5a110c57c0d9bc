package interfaces

import (
	"github.com/iwtcode/benchService/internal/domain/models"
)

// BenchService - это агрегирующий интерфейс для всей бизнес-логики стенда.
type BenchService interface {
	RunManager
}

// RunManager определяет контракт для управления прогонами развёртки.
// Одновременно допускается не более одного активного прогона.
type RunManager interface {
	StartRun(plan models.SweepPlan) (*models.RunInfo, error)
	AbortRun() error
	ActiveRun() (*models.RunInfo, bool)
}

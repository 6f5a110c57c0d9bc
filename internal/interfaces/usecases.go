package interfaces

import (
	"github.com/iwtcode/benchService/internal/domain/entities"
	"github.com/iwtcode/benchService/internal/domain/models"
)

// Usecases - это агрегирующий интерфейс для всех use cases
type Usecases interface {
	StartRun(req models.StartRunRequest) (*models.RunInfo, error)
	AbortRun() error
	GetAllRuns() ([]entities.BenchRun, error)
	GetRunSteps(sessionID string) ([]entities.StepRow, error)
}

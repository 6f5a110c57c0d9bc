package interfaces

import (
	"github.com/iwtcode/benchService/internal/domain/entities"
)

// BenchRunRepository определяет контракт для работы с сохраненными прогонами в БД.
type BenchRunRepository interface {
	Create(run *entities.BenchRun) error
	Finish(sessionID, status string, voltIndex, currIndex, steps int, cause string) error
	AppendStep(row *entities.StepRow) error
	GetBySessionID(sessionID string) (*entities.BenchRun, error)
	GetAll() ([]entities.BenchRun, error)
	StepsBySessionID(sessionID string) ([]entities.StepRow, error)
	MarkInterrupted() (int64, error)
}

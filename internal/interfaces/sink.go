package interfaces

import (
	"context"

	"github.com/iwtcode/benchService/internal/domain/models"
)

// ResultSink принимает упорядоченную последовательность точек прогона.
// Порядок вызовов Append совпадает с порядком обхода развёртки и должен
// сохраняться приемником; Finalize вызывается ровно один раз с итогом.
type ResultSink interface {
	Append(rec models.StepRecord) error
	Finalize(outcome models.RunOutcome) error
}

// StepProducer определяет контракт для отправки данных во внешние системы.
type StepProducer interface {
	Produce(ctx context.Context, key, value []byte) error
	Close() error
}

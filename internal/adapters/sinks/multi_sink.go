package sinks

import (
	"github.com/iwtcode/benchService/internal/domain/models"
	"github.com/iwtcode/benchService/internal/interfaces"
	"github.com/iwtcode/benchService/internal/middleware/logging"
)

// MultiSink раздает каждую строку всем приемникам в порядке регистрации.
// Отказ одного приемника журналируется и не мешает остальным: потеря
// одного канала вывода не должна останавливать прогон.
type MultiSink struct {
	sinks  []interfaces.ResultSink
	logger *logging.Logger
}

func NewMultiSink(logger *logging.Logger, sinks ...interfaces.ResultSink) *MultiSink {
	return &MultiSink{
		sinks:  sinks,
		logger: logger.WithPrefix("SINK"),
	}
}

func (m *MultiSink) Append(rec models.StepRecord) error {
	for _, s := range m.sinks {
		if err := s.Append(rec); err != nil {
			m.logger.Error("Sink rejected step record", "error", err)
		}
	}
	return nil
}

func (m *MultiSink) Finalize(outcome models.RunOutcome) error {
	for _, s := range m.sinks {
		if err := s.Finalize(outcome); err != nil {
			m.logger.Error("Sink finalize failed", "error", err)
		}
	}
	return nil
}

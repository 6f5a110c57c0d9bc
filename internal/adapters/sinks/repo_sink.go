package sinks

import (
	"github.com/iwtcode/benchService/internal/domain/entities"
	"github.com/iwtcode/benchService/internal/domain/models"
	"github.com/iwtcode/benchService/internal/interfaces"
)

// RepoSink сохраняет строки результатов в БД по мере их появления.
// Итоговый статус прогона обновляет владелец прогона, а не приемник,
// поэтому Finalize здесь ничего не делает.
type RepoSink struct {
	repo      interfaces.BenchRunRepository
	sessionID string
	steps     int
}

func NewRepoSink(repo interfaces.BenchRunRepository, sessionID string) *RepoSink {
	return &RepoSink{repo: repo, sessionID: sessionID}
}

func (s *RepoSink) Append(rec models.StepRecord) error {
	row := &entities.StepRow{
		SessionID:  s.sessionID,
		StepIndex:  s.steps,
		VoltIndex:  rec.VoltIndex,
		CurrIndex:  rec.CurrIndex,
		VoltSet:    rec.VoltSet,
		CurrSet:    rec.CurrSet,
		VoltMeas:   rec.VoltMeas,
		CurrMeas:   rec.CurrMeas,
		PowerMeas:  rec.PowerMeas,
		Status:     string(rec.Status),
		RecordedAt: rec.RecordedAt,
	}
	if err := s.repo.AppendStep(row); err != nil {
		return err
	}
	s.steps++
	return nil
}

func (s *RepoSink) Finalize(models.RunOutcome) error { return nil }

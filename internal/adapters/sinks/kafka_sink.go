package sinks

import (
	"context"
	"encoding/json"

	"github.com/iwtcode/benchService/internal/domain/models"
	"github.com/iwtcode/benchService/internal/interfaces"
)

// KafkaSink сериализует строки результатов в JSON и публикует их с ключом
// сессии прогона, так что все точки одного прогона попадают в одну партицию
// и сохраняют порядок обхода.
type KafkaSink struct {
	producer  interfaces.StepProducer
	sessionID string
}

func NewKafkaSink(producer interfaces.StepProducer, sessionID string) *KafkaSink {
	return &KafkaSink{producer: producer, sessionID: sessionID}
}

func (s *KafkaSink) Append(rec models.StepRecord) error {
	payload, err := json.Marshal(struct {
		SessionID string `json:"session_id"`
		models.StepRecord
	}{SessionID: s.sessionID, StepRecord: rec})
	if err != nil {
		return err
	}
	return s.producer.Produce(context.Background(), []byte(s.sessionID), payload)
}

func (s *KafkaSink) Finalize(outcome models.RunOutcome) error {
	payload, err := json.Marshal(struct {
		SessionID string `json:"session_id"`
		models.RunOutcome
	}{SessionID: s.sessionID, RunOutcome: outcome})
	if err != nil {
		return err
	}
	return s.producer.Produce(context.Background(), []byte(s.sessionID), payload)
}

package sinks

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/iwtcode/benchService/internal/domain/models"
	"github.com/iwtcode/benchService/internal/middleware/logging"
	"github.com/stretchr/testify/require"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(&logging.Config{Enabled: false}, "TEST")
}

func testRecord(vi, ii int) models.StepRecord {
	return models.StepRecord{
		VoltIndex:  vi,
		CurrIndex:  ii,
		VoltSet:    110,
		CurrSet:    2,
		VoltMeas:   109.95,
		CurrMeas:   1.98,
		PowerMeas:  217.7,
		Status:     models.StepOk,
		RecordedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestCSVSinkWritesRows(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewCSVSink(dir, "run-1")
	require.NoError(t, err)

	require.NoError(t, sink.Append(testRecord(0, 0)))
	require.NoError(t, sink.Append(testRecord(0, 1)))
	require.NoError(t, sink.Finalize(models.RunOutcome{
		Result: models.RunCompleted, Steps: 2, VoltIndex: 0, CurrIndex: 1,
	}))

	f, err := os.Open(sink.Path())
	require.NoError(t, err)
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 4, "Заголовок, две строки данных и итоговый комментарий")
	require.Equal(t, "step", rows[0][0])
	require.Equal(t, "0", rows[1][0])
	require.Equal(t, "1", rows[2][0], "Порядковый номер растет в порядке записи")
	require.Equal(t, "ok", rows[1][8])
	require.Contains(t, rows[3][0], "result=completed")
}

func TestCSVSinkRejectsAfterFinalize(t *testing.T) {
	sink, err := NewCSVSink(t.TempDir(), "run-2")
	require.NoError(t, err)
	require.NoError(t, sink.Finalize(models.RunOutcome{Result: models.RunAborted}))

	require.Error(t, sink.Append(testRecord(0, 0)))
	require.NoError(t, sink.Finalize(models.RunOutcome{}), "Повторная финализация безопасна")
}

// --- Заглушки для MultiSink и KafkaSink ---

type recordingSink struct {
	records   []models.StepRecord
	finalized bool
	appendErr error
}

func (s *recordingSink) Append(rec models.StepRecord) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *recordingSink) Finalize(models.RunOutcome) error {
	s.finalized = true
	return nil
}

func TestMultiSinkContinuesAfterFailure(t *testing.T) {
	broken := &recordingSink{appendErr: errors.New("disk full")}
	healthy := &recordingSink{}
	m := NewMultiSink(testLogger(), broken, healthy)

	require.NoError(t, m.Append(testRecord(0, 0)), "Отказ одного приемника не прерывает прогон")
	require.Len(t, healthy.records, 1)

	require.NoError(t, m.Finalize(models.RunOutcome{Result: models.RunCompleted}))
	require.True(t, broken.finalized)
	require.True(t, healthy.finalized)
}

type capturedMessage struct {
	key, value []byte
}

type stubProducer struct {
	messages []capturedMessage
}

func (p *stubProducer) Produce(_ context.Context, key, value []byte) error {
	p.messages = append(p.messages, capturedMessage{key: key, value: value})
	return nil
}

func (p *stubProducer) Close() error { return nil }

func TestKafkaSinkKeysBySession(t *testing.T) {
	producer := &stubProducer{}
	sink := NewKafkaSink(producer, "session-42")

	require.NoError(t, sink.Append(testRecord(1, 2)))
	require.NoError(t, sink.Finalize(models.RunOutcome{Result: models.RunCompleted, Steps: 1}))

	require.Len(t, producer.messages, 2)
	require.Equal(t, []byte("session-42"), producer.messages[0].key,
		"Все сообщения прогона идут с одним ключом")

	var step struct {
		SessionID string `json:"session_id"`
		VoltIndex int    `json:"volt_index"`
		CurrIndex int    `json:"curr_index"`
	}
	require.NoError(t, json.Unmarshal(producer.messages[0].value, &step))
	require.Equal(t, "session-42", step.SessionID)
	require.Equal(t, 1, step.VoltIndex)
	require.Equal(t, 2, step.CurrIndex)

	var final struct {
		SessionID string `json:"session_id"`
		Result    string `json:"result"`
	}
	require.NoError(t, json.Unmarshal(producer.messages[1].value, &final))
	require.Equal(t, "completed", final.Result)
}

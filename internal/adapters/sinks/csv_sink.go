package sinks

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/iwtcode/benchService/internal/domain/models"
)

// CSVSink пишет строки результатов в файл прогона в порядке поступления.
// Каждая строка сбрасывается на диск сразу: при отказе или останове всё
// собранное к этому моменту уже сохранено.
type CSVSink struct {
	path   string
	file   *os.File
	writer *csv.Writer
	rows   int
	closed bool
}

var csvHeader = []string{
	"step", "volt_index", "curr_index",
	"volt_set", "curr_set",
	"volt_meas", "curr_meas", "power_meas",
	"status", "recorded_at",
}

// NewCSVSink создает файл результатов для прогона внутри dir.
func NewCSVSink(dir, sessionID string) (*CSVSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию результатов '%s': %w", dir, err)
	}

	path := filepath.Join(dir, sessionID+".csv")
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать файл результатов '%s': %w", path, err)
	}

	s := &CSVSink{
		path:   path,
		file:   file,
		writer: csv.NewWriter(file),
	}
	if err := s.writer.Write(csvHeader); err != nil {
		_ = file.Close()
		return nil, err
	}
	s.writer.Flush()
	return s, s.writer.Error()
}

// Path возвращает путь к файлу результатов.
func (s *CSVSink) Path() string { return s.path }

func (s *CSVSink) Append(rec models.StepRecord) error {
	if s.closed {
		return fmt.Errorf("csv sink is already finalized")
	}

	row := []string{
		strconv.Itoa(s.rows), // порядковый номер в порядке обхода
		strconv.Itoa(rec.VoltIndex),
		strconv.Itoa(rec.CurrIndex),
		formatFloat(rec.VoltSet),
		formatFloat(rec.CurrSet),
		formatFloat(rec.VoltMeas),
		formatFloat(rec.CurrMeas),
		formatFloat(rec.PowerMeas),
		string(rec.Status),
		rec.RecordedAt.Format(time.RFC3339Nano),
	}
	if err := s.writer.Write(row); err != nil {
		return err
	}
	s.rows++
	s.writer.Flush()
	return s.writer.Error()
}

// Finalize дописывает итоговую строку-комментарий и закрывает файл.
func (s *CSVSink) Finalize(outcome models.RunOutcome) error {
	if s.closed {
		return nil
	}
	s.closed = true

	comment := []string{fmt.Sprintf(
		"# result=%s steps=%d volt_index=%d curr_index=%d",
		outcome.Result, outcome.Steps, outcome.VoltIndex, outcome.CurrIndex,
	)}
	_ = s.writer.Write(comment)
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		_ = s.file.Close()
		return err
	}
	return s.file.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

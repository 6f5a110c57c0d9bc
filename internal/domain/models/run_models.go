package models

import "time"

// Measurement - мгновенные показания электронной нагрузки.
type Measurement struct {
	Voltage float64 `json:"voltage"`
	Current float64 `json:"current"`
	Power   float64 `json:"power"`
}

// StartRunRequest определяет структуру запроса на запуск прогона.
// PlanFile позволяет указать альтернативный файл плана; пустое значение
// означает файл из конфигурации сервиса.
type StartRunRequest struct {
	PlanFile string `json:"plan_file"`
}

// RunInfo представляет активный или завершенный прогон.
type RunInfo struct {
	SessionID  string      `json:"session_id"`
	State      string      `json:"state"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
	Outcome    *RunOutcome `json:"outcome,omitempty"`
}

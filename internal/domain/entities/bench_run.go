package entities

import "time"

const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusAborted   = "aborted"
	StatusFailed    = "failed"
)

// BenchRun - сохраненный прогон развёртки.
type BenchRun struct {
	SessionID  string     `gorm:"primaryKey;not null" json:"session_id"`
	PlanJSON   string     `gorm:"type:text;not null" json:"plan_json"` // снимок плана на момент запуска
	Status     string     `gorm:"not null;index" json:"status"`        // running / completed / aborted / failed
	VoltIndex  int        `json:"volt_index"`                          // достигнутая позиция во внешнем цикле
	CurrIndex  int        `json:"curr_index"`                          // достигнутая позиция во внутреннем цикле
	Steps      int        `json:"steps"`                               // число записанных точек
	Cause      string     `json:"cause"`                               // причина отказа, если Status = failed
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	FinishedAt *time.Time `json:"finished_at"`
}

// StepRow - одна точка развёртки, привязанная к прогону.
type StepRow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SessionID  string    `gorm:"not null;index" json:"session_id"`
	StepIndex  int       `gorm:"not null" json:"step_index"` // порядковый номер в порядке обхода
	VoltIndex  int       `json:"volt_index"`
	CurrIndex  int       `json:"curr_index"`
	VoltSet    float64   `json:"volt_set"`
	CurrSet    float64   `json:"curr_set"`
	VoltMeas   float64   `json:"volt_meas"`
	CurrMeas   float64   `json:"curr_meas"`
	PowerMeas  float64   `json:"power_meas"`
	Status     string    `gorm:"not null" json:"status"` // ok / skipped / faulted
	RecordedAt time.Time `json:"recorded_at"`
}

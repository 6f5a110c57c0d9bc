package bench_run

import (
	"time"

	"github.com/iwtcode/benchService/internal/domain/entities"
	"gorm.io/gorm"
)

func (r *BenchRunRepositoryImpl) Create(run *entities.BenchRun) error {
	return r.db.Create(run).Error
}

// Finish фиксирует терминальное состояние прогона: статус, достигнутую
// позицию развёртки, число точек и причину отказа.
func (r *BenchRunRepositoryImpl) Finish(sessionID, status string, voltIndex, currIndex, steps int, cause string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":      status,
		"volt_index":  voltIndex,
		"curr_index":  currIndex,
		"steps":       steps,
		"cause":       cause,
		"finished_at": &now,
	}
	result := r.db.Model(&entities.BenchRun{}).Where("session_id = ?", sessionID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *BenchRunRepositoryImpl) AppendStep(row *entities.StepRow) error {
	return r.db.Create(row).Error
}

func (r *BenchRunRepositoryImpl) GetBySessionID(sessionID string) (*entities.BenchRun, error) {
	var run entities.BenchRun
	err := r.db.Where("session_id = ?", sessionID).First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// GetAll возвращает все сохраненные прогоны, свежие первыми
func (r *BenchRunRepositoryImpl) GetAll() ([]entities.BenchRun, error) {
	var runs []entities.BenchRun
	if err := r.db.Order("created_at DESC").Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// StepsBySessionID возвращает строки результатов прогона в порядке обхода
func (r *BenchRunRepositoryImpl) StepsBySessionID(sessionID string) ([]entities.StepRow, error) {
	var rows []entities.StepRow
	if err := r.db.Where("session_id = ?", sessionID).Order("step_index ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkInterrupted помечает прогоны, оставшиеся в статусе running после
// падения сервиса, как отказавшие. Возобновление прерванной развёртки не
// поддерживается.
func (r *BenchRunRepositoryImpl) MarkInterrupted() (int64, error) {
	result := r.db.Model(&entities.BenchRun{}).
		Where("status = ?", entities.StatusRunning).
		Updates(map[string]interface{}{
			"status": entities.StatusFailed,
			"cause":  "service restarted while run was active",
		})
	return result.RowsAffected, result.Error
}

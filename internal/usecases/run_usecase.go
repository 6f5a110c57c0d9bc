package usecases

import (
	"fmt"

	"github.com/iwtcode/benchService/internal/config"
	"github.com/iwtcode/benchService/internal/domain/entities"
	"github.com/iwtcode/benchService/internal/domain/models"
	"github.com/iwtcode/benchService/internal/interfaces"
)

type Usecase struct {
	cfg      *config.AppConfig
	benchSvc interfaces.BenchService
	repo     interfaces.BenchRunRepository
}

func NewUsecase(cfg *config.AppConfig, benchSvc interfaces.BenchService, repo interfaces.BenchRunRepository) interfaces.Usecases {
	return &Usecase{
		cfg:      cfg,
		benchSvc: benchSvc,
		repo:     repo,
	}
}

// StartRun загружает план развёртки из файла и запускает прогон.
func (u *Usecase) StartRun(req models.StartRunRequest) (*models.RunInfo, error) {
	planFile := req.PlanFile
	if planFile == "" {
		planFile = u.cfg.PlanFile
	}

	plan, err := config.LoadPlan(planFile)
	if err != nil {
		return nil, err
	}
	return u.benchSvc.StartRun(plan)
}

func (u *Usecase) AbortRun() error {
	return u.benchSvc.AbortRun()
}

func (u *Usecase) GetAllRuns() ([]entities.BenchRun, error) {
	return u.repo.GetAll()
}

// GetRunSteps возвращает строки результатов прогона в порядке обхода.
func (u *Usecase) GetRunSteps(sessionID string) ([]entities.StepRow, error) {
	if _, err := u.repo.GetBySessionID(sessionID); err != nil {
		return nil, fmt.Errorf("прогон '%s' не найден: %w", sessionID, err)
	}
	return u.repo.StepsBySessionID(sessionID)
}

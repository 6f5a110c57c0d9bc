package usecases

import (
	"github.com/iwtcode/benchService/internal/config"
	"github.com/iwtcode/benchService/internal/interfaces"
)

// UseCases - агрегатор всех use case интерфейсов
type UseCases struct {
	interfaces.Usecases
}

// NewUsecases - конструктор для UseCases
func NewUsecases(
	cfg *config.AppConfig,
	benchSvc interfaces.BenchService,
	repo interfaces.BenchRunRepository,
) interfaces.Usecases {
	return NewUsecase(cfg, benchSvc, repo)
}

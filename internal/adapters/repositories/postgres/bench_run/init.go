package bench_run

import (
	"github.com/iwtcode/benchService/internal/interfaces"
	"gorm.io/gorm"
)

type BenchRunRepositoryImpl struct {
	db *gorm.DB
}

func NewBenchRunRepository(db *gorm.DB) interfaces.BenchRunRepository {
	return &BenchRunRepositoryImpl{db: db}
}

package bench_service

import (
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iwtcode/benchService/internal/adapters/observability"
	"github.com/iwtcode/benchService/internal/adapters/sinks"
	"github.com/iwtcode/benchService/internal/config"
	"github.com/iwtcode/benchService/internal/domain/entities"
	"github.com/iwtcode/benchService/internal/domain/models"
	"github.com/iwtcode/benchService/internal/interfaces"
	"github.com/iwtcode/benchService/internal/middleware/logging"
	"github.com/iwtcode/benchService/internal/services/scpi"
	apperrors "github.com/iwtcode/benchService/pkg/errors"
)

// benchService владеет единственным активным прогоном: обе сессии приборов
// принадлежат движку монопольно, поэтому второй прогон не запускается, пока
// не завершен текущий.
type benchService struct {
	cfg      *config.AppConfig
	repo     interfaces.BenchRunRepository
	producer interfaces.StepProducer
	metrics  *observability.BenchMetrics
	logger   *logging.Logger

	mu     sync.Mutex
	active *activeRun
}

type activeRun struct {
	info    models.RunInfo
	monitor *Monitor
}

func NewBenchService(
	cfg *config.AppConfig,
	repo interfaces.BenchRunRepository,
	producer interfaces.StepProducer,
	metrics *observability.BenchMetrics,
	logger *logging.Logger,
) interfaces.BenchService {
	return &benchService{
		cfg:      cfg,
		repo:     repo,
		producer: producer,
		metrics:  metrics,
		logger:   logger.WithPrefix("BENCH"),
	}
}

// StartRun валидирует план, подключается к обоим приборам и запускает
// прогон в фоновой горутине. Возвращает сведения о запущенном прогоне.
func (s *benchService) StartRun(plan models.SweepPlan) (*models.RunInfo, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.active != nil {
		s.mu.Unlock()
		return nil, apperrors.ErrRunActive
	}
	// Слот резервируется до подключения к приборам, чтобы параллельный
	// запрос не успел открыть вторые сессии.
	monitor := NewMonitor()
	sessionID := uuid.New().String()
	run := &activeRun{
		info: models.RunInfo{
			SessionID: sessionID,
			State:     StateIdle.String(),
			StartedAt: time.Now(),
		},
		monitor: monitor,
	}
	s.active = run
	s.mu.Unlock()

	engine, closeTransports, err := s.prepare(sessionID, plan, monitor)
	if err != nil {
		s.clearActive()
		return nil, err
	}

	planJSON, _ := json.Marshal(plan)
	if err := s.repo.Create(&entities.BenchRun{
		SessionID: sessionID,
		PlanJSON:  string(planJSON),
		Status:    entities.StatusRunning,
	}); err != nil {
		closeTransports()
		s.clearActive()
		return nil, fmt.Errorf("не удалось сохранить прогон %s в БД: %w", sessionID, err)
	}

	s.logger.Info("Run starting", "sessionID", sessionID,
		"voltage_points", plan.Voltage.Count(), "current_points", plan.Current.Count())

	go s.execute(sessionID, engine, closeTransports)

	info := run.info
	return &info, nil
}

// prepare открывает транспорты и собирает движок со всеми приемниками.
func (s *benchService) prepare(sessionID string, plan models.SweepPlan, monitor *Monitor) (*Engine, func(), error) {
	bench := s.cfg.Bench

	sourceAddr := net.JoinHostPort(bench.SimulatorHost, bench.SimulatorPort)
	sourceTr, err := scpi.DialSocket(sourceAddr, bench.CommandTimeout)
	if err != nil {
		return nil, nil, err
	}

	loadTr, err := scpi.DialGPIB(bench.GPIBGateway, bench.LoadResource, bench.CommandTimeout)
	if err != nil {
		_ = sourceTr.Close()
		return nil, nil, err
	}

	closeTransports := func() {
		_ = loadTr.Close()
		_ = sourceTr.Close()
	}

	csvSink, err := sinks.NewCSVSink(s.cfg.ResultsDir, sessionID)
	if err != nil {
		closeTransports()
		return nil, nil, err
	}

	sink := sinks.NewMultiSink(s.logger,
		csvSink,
		sinks.NewKafkaSink(s.producer, sessionID),
		sinks.NewRepoSink(s.repo, sessionID),
		s.metrics,
	)

	source := NewSourceController(sourceTr, bench.SimulatorInstrument, plan, s.logger)
	load := NewLoadController(loadTr, plan, s.logger)
	engine := NewEngine(plan, source, load, monitor, sink, s.logger)

	return engine, closeTransports, nil
}

// execute доводит прогон до конца и фиксирует итог. Транспорты закрываются
// только после фазы останова движка: сессии приборов живут от включения до
// отключения безусловно.
func (s *benchService) execute(sessionID string, engine *Engine, closeTransports func()) {
	outcome := engine.Run()
	closeTransports()

	status := entities.StatusFailed
	switch outcome.Result {
	case models.RunCompleted:
		status = entities.StatusCompleted
	case models.RunAborted:
		status = entities.StatusAborted
	}

	if err := s.repo.Finish(sessionID, status, outcome.VoltIndex, outcome.CurrIndex, outcome.Steps, outcome.Cause); err != nil {
		s.logger.Error("Failed to persist run outcome", "sessionID", sessionID, "error", err)
	}

	s.clearActive()
	s.logger.Info("Run finished", "sessionID", sessionID, "result", outcome.Result, "steps", outcome.Steps)
}

// AbortRun взводит липкий флаг останова активного прогона.
func (s *benchService) AbortRun() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return apperrors.ErrNoActiveRun
	}
	s.active.monitor.Request()
	s.logger.Warn("Abort requested", "sessionID", s.active.info.SessionID)
	return nil
}

// ActiveRun возвращает сведения об активном прогоне, если он есть.
func (s *benchService) ActiveRun() (*models.RunInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return nil, false
	}
	info := s.active.info
	return &info, true
}

func (s *benchService) clearActive() {
	s.mu.Lock()
	s.active = nil
	s.mu.Unlock()
}

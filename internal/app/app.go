package app

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/iwtcode/benchService/internal/adapters/handlers"
	"github.com/iwtcode/benchService/internal/adapters/observability"
	"github.com/iwtcode/benchService/internal/adapters/repositories/postgres"
	"github.com/iwtcode/benchService/internal/config"
	"github.com/iwtcode/benchService/internal/interfaces"
	"github.com/iwtcode/benchService/internal/middleware/logging"
	"github.com/iwtcode/benchService/internal/middleware/swagger"
	"github.com/iwtcode/benchService/internal/services/bench_service"
	"github.com/iwtcode/benchService/internal/services/kafka"
	"github.com/iwtcode/benchService/internal/usecases"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

// New создает новый экземпляр fx.App
func New() *fx.App {
	return fx.New(
		ConfigModule,
		LoggingModule,
		RepositoryModule,
		ProducerModule,
		MetricsModule,
		ServiceModule,
		UsecaseModule,
		HttpServerModule,
		// Invoke-функции для запуска фоновых задач и хуков жизненного цикла
		fx.Invoke(InvokeMarkInterrupted),
		fx.Invoke(InvokeKeyWatcher),
		fx.Invoke(InvokeMetricsServer),
	)
}

// --- Модули FX ---

var ConfigModule = fx.Module("config_module",
	fx.Provide(config.LoadConfiguration),
)

func ProvideLogger(cfg *config.AppConfig) *logging.Logger {
	loggerCfg := &logging.Config{
		Enabled:    cfg.Logging.Enable,
		Level:      cfg.Logging.Level,
		LogsDir:    cfg.Logging.LogsDir,
		SavingDays: uint(cfg.Logging.SavingDays),
	}
	return logging.NewLogger(loggerCfg, "BenchServiceApp")
}

var LoggingModule = fx.Module("logging_module",
	fx.Provide(ProvideLogger),
)

var RepositoryModule = fx.Module("repository_module",
	fx.Provide(postgres.NewRepository),
)

var ProducerModule = fx.Module("producer_module",
	fx.Provide(kafka.NewStepProducer),
)

var MetricsModule = fx.Module("metrics_module",
	fx.Provide(observability.NewBenchMetrics),
)

var ServiceModule = fx.Module("service_module",
	fx.Provide(bench_service.NewBenchService),
)

var UsecaseModule = fx.Module("usecases_module",
	fx.Provide(usecases.NewUsecases),
)

func NewSwaggerConfig() *swagger.Config {
	return &swagger.Config{
		Enabled: true,
		Path:    "/swagger",
	}
}

var HttpServerModule = fx.Module("http_server_module",
	fx.Provide(
		NewSwaggerConfig,
		handlers.NewHandler,
		handlers.ProvideRouter,
	),
	fx.Invoke(InvokeHttpServer),
)

// InvokeMarkInterrupted помечает прогоны, оставшиеся в статусе running
// после аварийного завершения процесса, как failed. Восстановление прогона
// невозможно: приборы уже обесточены сторожевыми механизмами стенда.
func InvokeMarkInterrupted(lc fx.Lifecycle, repo interfaces.BenchRunRepository, logger *logging.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			n, err := repo.MarkInterrupted()
			if err != nil {
				logger.Error("Failed to mark interrupted runs", "error", err)
				return nil // Не фатально, просто продолжаем
			}
			if n > 0 {
				logger.Warn("Marked interrupted runs as failed", "count", n)
			}
			return nil
		},
	})
}

// InvokeKeyWatcher запускает чтение stdin: нажатие клавиши останова
// запрашивает прерывание активного прогона.
func InvokeKeyWatcher(lc fx.Lifecycle, cfg *config.AppConfig, uc interfaces.Usecases, logger *logging.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go bench_service.WatchKeys(os.Stdin, cfg.Bench.AbortKey, logger, func() {
				if err := uc.AbortRun(); err != nil {
					logger.Warn("Abort request ignored", "error", err)
				}
			})
			return nil
		},
	})
}

// InvokeMetricsServer запускает отдельный HTTP-сервер с метриками Prometheus.
func InvokeMetricsServer(lc fx.Lifecycle, cfg *config.AppConfig, logger *logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: mux,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Metrics server is starting", "address", cfg.MetricsAddr)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("Failed to start metrics server", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}

// InvokeHttpServer запускает HTTP-сервер.
func InvokeHttpServer(lc fx.Lifecycle, cfg *config.AppConfig, h http.Handler, logger *logging.Logger) {
	serverAddr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("HTTP Server is starting", "address", serverAddr)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("Failed to start server", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}

// Консольный запуск одиночной развертки без HTTP-сервиса: конфигурация
// из окружения, план из YAML-файла, результаты в CSV. Код выхода 0 для
// завершенного или прерванного оператором прогона, 1 для отказа.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/iwtcode/benchService/internal/adapters/sinks"
	"github.com/iwtcode/benchService/internal/config"
	"github.com/iwtcode/benchService/internal/domain/models"
	"github.com/iwtcode/benchService/internal/middleware/logging"
	"github.com/iwtcode/benchService/internal/services/bench_service"
	"github.com/iwtcode/benchService/internal/services/scpi"
)

func main() {
	planPath := flag.String("plan", "", "путь к YAML-файлу плана развертки (по умолчанию PLAN_FILE)")
	flag.Parse()

	// 1) Загрузка конфигурации
	cfg, err := config.LoadConfiguration()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	logger := logging.NewLogger(&logging.Config{
		Enabled:    cfg.Logging.Enable,
		Level:      cfg.Logging.Level,
		LogsDir:    cfg.Logging.LogsDir,
		SavingDays: uint(cfg.Logging.SavingDays),
	}, "SweepCLI")

	path := *planPath
	if path == "" {
		path = cfg.PlanFile
	}

	// 2) Загрузка и валидация плана
	plan, err := config.LoadPlan(path)
	if err != nil {
		log.Fatalf("Ошибка загрузки плана %s: %v", path, err)
	}
	log.Printf("План загружен: %d точек напряжения x %d точек тока",
		plan.Voltage.Count(), plan.Current.Count())

	// 3) Подключение к приборам
	simAddr := cfg.Bench.SimulatorHost + ":" + cfg.Bench.SimulatorPort
	sourceTr, err := scpi.DialSocket(simAddr, cfg.Bench.CommandTimeout)
	if err != nil {
		log.Fatalf("Ошибка подключения к симулятору сети %s: %v", simAddr, err)
	}
	defer sourceTr.Close()
	log.Printf("Симулятор сети подключен: %s", simAddr)

	loadTr, err := scpi.DialGPIB(cfg.Bench.GPIBGateway, cfg.Bench.LoadResource, cfg.Bench.CommandTimeout)
	if err != nil {
		log.Fatalf("Ошибка подключения к нагрузке %s через %s: %v",
			cfg.Bench.LoadResource, cfg.Bench.GPIBGateway, err)
	}
	defer loadTr.Close()
	log.Printf("Электронная нагрузка подключена: %s", cfg.Bench.LoadResource)
	fmt.Println("==================================================")

	// 4) Сборка движка: CSV-приемник и слежение за клавишей останова
	sessionID := uuid.New().String()
	csvSink, err := sinks.NewCSVSink(cfg.ResultsDir, sessionID)
	if err != nil {
		log.Fatalf("Ошибка создания CSV-файла результатов: %v", err)
	}

	monitor := bench_service.NewMonitor()
	go bench_service.WatchKeys(os.Stdin, cfg.Bench.AbortKey, logger, monitor.Request)
	log.Printf("Останов по клавише '%s' + Enter", cfg.Bench.AbortKey)

	source := bench_service.NewSourceController(sourceTr, cfg.Bench.SimulatorInstrument, plan, logger)
	loadCtl := bench_service.NewLoadController(loadTr, plan, logger)
	engine := bench_service.NewEngine(plan, source, loadCtl, monitor, csvSink, logger)

	// 5) Прогон и итог
	outcome := engine.Run()
	fmt.Println("==================================================")
	log.Printf("Прогон %s завершен: result=%s, шагов записано=%d", sessionID, outcome.Result, outcome.Steps)
	if outcome.Cause != "" {
		log.Printf("Причина: %s", outcome.Cause)
	}
	log.Printf("Результаты: %s", csvSink.Path())

	if outcome.Result == models.RunFailed {
		os.Exit(1)
	}
}

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig содержит конфигурацию приложения
type AppConfig struct {
	ServerPort  string
	MetricsAddr string
	KafkaBroker string
	KafkaTopic  string
	GinMode     string
	PlanFile    string
	ResultsDir  string
	Bench       BenchConfig
	Database    DatabaseConfig
	Logging     LoggerConfig
}

// BenchConfig содержит адреса приборов стенда и параметры обмена
type BenchConfig struct {
	SimulatorHost       string // NHR 9400, SCPI поверх TCP
	SimulatorPort       string
	SimulatorInstrument int           // номер AC GRID внутри шасси
	LoadResource        string        // VISA-ресурс Chroma, "GPIB0::8::INSTR"
	GPIBGateway         string        // адрес Ethernet-GPIB шлюза, "IP:PORT"
	CommandTimeout      time.Duration // таймаут ответа на один запрос
	AbortKey            string        // клавиша запроса останова
}

// LoggerConfig содержит настройки логгера
type LoggerConfig struct {
	Enable     bool
	LogsDir    string
	Level      string
	SavingDays int
}

// DatabaseConfig содержит конфигурацию для подключения к базе данных
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	DBName   string
}

// LoadConfiguration загружает конфигурацию из .env файла или переменных окружения
func LoadConfiguration() (*AppConfig, error) {
	_ = godotenv.Load()

	config := &AppConfig{
		ServerPort:  getEnv("APP_PORT", "8082"),
		MetricsAddr: getEnv("METRICS_ADDR", ":9102"),
		KafkaBroker: getEnv("KAFKA_BROKER", "localhost:9092"),
		KafkaTopic:  getEnv("KAFKA_TOPIC", "bench_steps"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		PlanFile:    getEnv("PLAN_FILE", "./sweep.yaml"),
		ResultsDir:  getEnv("RESULTS_DIR", "./results"),
		Bench: BenchConfig{
			SimulatorHost:       getEnv("SIMULATOR_HOST", "192.168.0.149"),
			SimulatorPort:       getEnv("SIMULATOR_PORT", "5025"),
			SimulatorInstrument: getEnvAsInt("SIMULATOR_INSTRUMENT", 3),
			LoadResource:        getEnv("LOAD_RESOURCE", "GPIB0::8::INSTR"),
			GPIBGateway:         getEnv("GPIB_GATEWAY", "192.168.0.150:1234"),
			CommandTimeout:      time.Duration(getEnvAsInt("COMMAND_TIMEOUT_MS", 5000)) * time.Millisecond,
			AbortKey:            getEnv("ABORT_KEY", "q"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Username: getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "root"),
			DBName:   getEnv("DB_NAME", "bench_db"),
		},
		Logging: LoggerConfig{
			Enable:     getEnvAsBool("LOGGER_ENABLE", true),
			LogsDir:    getEnv("LOGGER_LOGS_DIR", "./logs"),
			Level:      getEnv("LOGGER_LOG_LEVEL", "DEBUG"),
			SavingDays: getEnvAsInt("LOGGER_SAVING_DAYS", 7),
		},
	}

	return config, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(name string, defaultValue int) int {
	valueStr := getEnv(name, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	val, _ := strconv.ParseBool(value)
	return val
}

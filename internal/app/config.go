package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config описывает настройки запуска сервиса. Значения по умолчанию заданы тегами envDefault.
type Config struct {
	HTTPAddr    string `env:"SALES_HTTP_ADDR" envDefault:":8080"`
	GRPCAddr    string `env:"SALES_GRPC_ADDR" envDefault:":50051"`
	MetricsAddr string `env:"SALES_METRICS_ADDR" envDefault:":9090"`

	OverdueInterval    time.Duration `env:"SALES_OVERDUE_INTERVAL" envDefault:"1m"`
	OutboxPollInterval time.Duration `env:"SALES_OUTBOX_POLL_INTERVAL" envDefault:"1s"`
	OutboxBatchSize    int           `env:"SALES_OUTBOX_BATCH_SIZE" envDefault:"100"`
	OutboxMaxAttempts  int           `env:"SALES_OUTBOX_MAX_ATTEMPTS" envDefault:"3"`
	ShutdownTimeout    time.Duration `env:"SALES_SHUTDOWN_TIMEOUT" envDefault:"5s"`

	SeedDemo bool `env:"SALES_SEED_DEMO" envDefault:"false"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"SALES_KAFKA_TOPIC" envDefault:"sales.sale.events"`

	LogLevel string `env:"SALES_LOG_LEVEL" envDefault:"info"`
	LogJSON  bool   `env:"SALES_LOG_JSON" envDefault:"false"`
}

// DefaultConfig возвращает конфигурацию без учёта переменных окружения.
func DefaultConfig() Config {
	var cfg Config
	// Пустое окружение: применяются только envDefault.
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}); err != nil {
		panic(fmt.Sprintf("app: invalid config defaults: %v", err))
	}
	return cfg
}

// LoadConfig читает .env (если есть) и переменные окружения.
func LoadConfig(paths ...string) (Config, error) {
	const op = "app.LoadConfig"

	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("%s: load .env: %w", op, err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}

// Validate проверяет значения, которые нельзя безопасно подменить дефолтом.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.HTTPAddr) == "" {
		errs = append(errs, errors.New("http address is required"))
	}
	if strings.TrimSpace(c.GRPCAddr) == "" {
		errs = append(errs, errors.New("grpc address is required"))
	}
	if strings.TrimSpace(c.MetricsAddr) == "" {
		errs = append(errs, errors.New("metrics address is required"))
	}
	if c.OverdueInterval <= 0 {
		errs = append(errs, fmt.Errorf("overdue interval must be positive, got %s", c.OverdueInterval))
	}
	if c.OutboxPollInterval <= 0 {
		errs = append(errs, fmt.Errorf("outbox poll interval must be positive, got %s", c.OutboxPollInterval))
	}
	if c.OutboxBatchSize <= 0 {
		errs = append(errs, fmt.Errorf("outbox batch size must be positive, got %d", c.OutboxBatchSize))
	}
	if c.OutboxMaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("outbox max attempts must be positive, got %d", c.OutboxMaxAttempts))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("shutdown timeout must be positive, got %s", c.ShutdownTimeout))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// KafkaEnabled сообщает, настроены ли брокеры.
func (c Config) KafkaEnabled() bool {
	for _, broker := range c.KafkaBrokers {
		if strings.TrimSpace(broker) != "" {
			return true
		}
	}
	return false
}

// ConfigureLogger применяет уровень и формат логов к стандартному logrus логгеру.
func ConfigureLogger(cfg Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogJSON {
		log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339Nano})
		return
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}

package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, ":50051", cfg.GRPCAddr)
	require.Equal(t, ":9090", cfg.MetricsAddr)
	require.Equal(t, time.Minute, cfg.OverdueInterval)
	require.Equal(t, time.Second, cfg.OutboxPollInterval)
	require.Equal(t, 100, cfg.OutboxBatchSize)
	require.Equal(t, 3, cfg.OutboxMaxAttempts)
	require.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	require.False(t, cfg.SeedDemo)
	require.Empty(t, cfg.KafkaBrokers)
	require.Equal(t, "sales.sale.events", cfg.KafkaTopic)
	require.Equal(t, "info", cfg.LogLevel)
	require.False(t, cfg.LogJSON)
	require.NoError(t, cfg.Validate())
	require.False(t, cfg.KafkaEnabled())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("SALES_HTTP_ADDR", ":18080")
	t.Setenv("SALES_OVERDUE_INTERVAL", "30s")
	t.Setenv("SALES_OUTBOX_BATCH_SIZE", "25")
	t.Setenv("SALES_SEED_DEMO", "true")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("SALES_LOG_LEVEL", "debug")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	require.Equal(t, ":18080", cfg.HTTPAddr)
	require.Equal(t, ":50051", cfg.GRPCAddr)
	require.Equal(t, 30*time.Second, cfg.OverdueInterval)
	require.Equal(t, 25, cfg.OutboxBatchSize)
	require.True(t, cfg.SeedDemo)
	require.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	require.True(t, cfg.KafkaEnabled())
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_FromDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SALES_GRPC_ADDR=:6000\nSALES_KAFKA_TOPIC=custom.topic\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("SALES_GRPC_ADDR")
		_ = os.Unsetenv("SALES_KAFKA_TOPIC")
	})

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, ":6000", cfg.GRPCAddr)
	require.Equal(t, "custom.topic", cfg.KafkaTopic)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	t.Run("unparsable duration", func(t *testing.T) {
		t.Setenv("SALES_OVERDUE_INTERVAL", "soon")
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
		require.Error(t, err)
	})

	t.Run("non-positive batch", func(t *testing.T) {
		t.Setenv("SALES_OUTBOX_BATCH_SIZE", "0")
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
		require.ErrorContains(t, err, "outbox batch size")
	})
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HTTPAddr = " "
	cfg.OverdueInterval = 0
	cfg.LogLevel = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "http address is required")
	require.Contains(t, err.Error(), "overdue interval must be positive")
	require.Contains(t, err.Error(), "not a valid logrus Level")
}

func TestConfig_KafkaEnabledIgnoresBlankBrokers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KafkaBrokers = []string{" ", ""}
	require.False(t, cfg.KafkaEnabled())
}

func TestConfigureLogger(t *testing.T) {
	prevLevel := log.GetLevel()
	prevFormatter := log.StandardLogger().Formatter
	t.Cleanup(func() {
		log.SetLevel(prevLevel)
		log.SetFormatter(prevFormatter)
	})

	cfg := DefaultConfig()
	cfg.LogLevel = "warn"
	cfg.LogJSON = true
	ConfigureLogger(cfg)

	require.Equal(t, log.WarnLevel, log.GetLevel())
	require.IsType(t, &log.JSONFormatter{}, log.StandardLogger().Formatter)

	cfg.LogLevel = "bogus"
	cfg.LogJSON = false
	ConfigureLogger(cfg)

	require.Equal(t, log.InfoLevel, log.GetLevel())
	require.IsType(t, &log.TextFormatter{}, log.StandardLogger().Formatter)
}

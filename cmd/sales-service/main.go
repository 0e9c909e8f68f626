package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/salesdash/internal/app"
	"github.com/vladislavdragonenkov/salesdash/internal/version"
)

// startupFields собирает поля стартового лога.
func startupFields(cfg app.Config) log.Fields {
	return log.Fields{
		"http_addr":    cfg.HTTPAddr,
		"grpc_addr":    cfg.GRPCAddr,
		"metrics_addr": cfg.MetricsAddr,
		"kafka":        cfg.KafkaEnabled(),
		"seed_demo":    cfg.SeedDemo,
		"version":      version.GetVersion(),
		"commit":       version.GetCommit(),
		"build_date":   version.GetDate(),
	}
}

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("не удалось прочитать конфигурацию")
	}
	app.ConfigureLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(startupFields(cfg)).Info("запускаем sales dashboard")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("sales dashboard остановлен")
}

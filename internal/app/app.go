package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	promgrpc "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	healthcheck "github.com/vladislavdragonenkov/salesdash/internal/health"
	grpcsvc "github.com/vladislavdragonenkov/salesdash/internal/service/grpc"
	"github.com/vladislavdragonenkov/salesdash/internal/transport/httpapi"
	"github.com/vladislavdragonenkov/salesdash/internal/version"
)

const serviceName = "salesdash"

// freshnessFactor: сколько интервалов монитора допустимо пропустить до degraded.
const freshnessFactor = 3

// outboxStaleFactor: во сколько раз backlog может отставать от poll interval.
const outboxStaleFactor = 30

func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	deps, err := NewDependencies(cfg, logger)
	if err != nil {
		return err
	}
	deps.Start(ctx)
	defer deps.Close()

	grpcServer, healthServer := newGRPCServer(deps, logger.WithField("layer", "grpc"))
	healthHandler := newHealthHandler(deps, cfg)

	gin.SetMode(gin.ReleaseMode)
	apiHandler := httpapi.NewHandler(deps.Store, deps.Notifications, deps.Users, deps.Monitor, logger.WithField("layer", "http"))
	apiSrv := startHTTPServer(ctx, "api", cfg.HTTPAddr, httpapi.NewRouter(apiHandler), cfg.ShutdownTimeout, logger)
	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, cfg.ShutdownTimeout, logger, healthHandler)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		shutdownHTTP(apiSrv, cfg.ShutdownTimeout, logger)
		shutdownHTTP(metricsSrv, cfg.ShutdownTimeout, logger)
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("gRPC сервер слушает %s", cfg.GRPCAddr)
		errCh <- grpcServer.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем серверы")
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
		stoppedCh := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stoppedCh)
		}()
		select {
		case <-stoppedCh:
		case <-time.After(cfg.ShutdownTimeout):
			logger.Warn("graceful stop превысил таймаут, принудительно останавливаем")
			grpcServer.Stop()
		}
		shutdownHTTP(apiSrv, cfg.ShutdownTimeout, logger)
		shutdownHTTP(metricsSrv, cfg.ShutdownTimeout, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(apiSrv, cfg.ShutdownTimeout, logger)
		shutdownHTTP(metricsSrv, cfg.ShutdownTimeout, logger)
		if errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return err
	}
}

// newGRPCServer регистрирует DashboardService, grpc health и reflection.
func newGRPCServer(deps *Dependencies, logger *log.Entry) (*grpc.Server, *health.Server) {
	grpcMetrics := promgrpc.NewServerMetrics()
	if err := prometheus.Register(grpcMetrics); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*promgrpc.ServerMetrics); ok {
				grpcMetrics = existing
			}
		} else {
			logger.WithError(err).Warn("failed to register grpc metrics")
		}
	}
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(grpcMetrics.UnaryServerInterceptor()))

	grpcsvc.RegisterDashboardServer(grpcServer, grpcsvc.NewDashboardService(deps.Store, logger))
	grpcMetrics.InitializeMetrics(grpcServer)

	reflection.Register(grpcServer)

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(grpcsvc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	return grpcServer, healthServer
}

// newHealthHandler собирает проверки хранилища, монитора просрочек и outbox.
func newHealthHandler(deps *Dependencies, cfg Config) *healthcheck.Handler {
	handler := healthcheck.NewHandler(serviceName, version.GetVersion())

	handler.RegisterChecker("store", healthcheck.NewSimpleChecker("store", func() error {
		_, err := deps.Store.Sales()
		return err
	}))
	handler.RegisterChecker("delivery-monitor", healthcheck.NewFreshnessChecker(
		"delivery-monitor", deps.Monitor.LastRun, freshnessFactor*deps.Monitor.Interval(),
	))

	maxLag := outboxStaleFactor * cfg.OutboxPollInterval
	handler.RegisterChecker("outbox", healthcheck.NewSimpleChecker("outbox", func() error {
		stats, err := deps.Outbox.Stats()
		if err != nil {
			return err
		}
		if stats.PendingCount > 0 && time.Since(stats.OldestPendingAt) > maxLag {
			return fmt.Errorf("%d pending events, oldest is older than %s", stats.PendingCount, maxLag)
		}
		return nil
	}))

	return handler
}

// startHTTPServer запускает HTTP-сервер и останавливает его при отмене ctx.
func startHTTPServer(ctx context.Context, name, addr string, handler http.Handler, timeout time.Duration, logger *log.Entry) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Infof("%s HTTP сервер слушает %s", name, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).WithField("server", name).Warn("http server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, timeout, logger)
	}()

	return srv
}

// startMetricsServer запускает /metrics и health пробы.
func startMetricsServer(ctx context.Context, addr string, timeout time.Duration, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
	return startHTTPServer(ctx, "metrics", addr, mux, timeout, logger)
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, timeout time.Duration, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	healthcheck "github.com/vladislavdragonenkov/salesdash/internal/health"
	"github.com/vladislavdragonenkov/salesdash/internal/version"
)

func TestStartMetricsServer_Endpoints(t *testing.T) {
	logger := log.WithField("test", "http")
	port := findFreePort(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	healthHandler := healthcheck.NewHandler(serviceName, version.GetVersion())
	startMetricsServer(ctx, fmt.Sprintf("127.0.0.1:%d", port), time.Second, logger, healthHandler)
	waitForPort(t, port)

	cases := []struct {
		path string
		code int
		body string
	}{
		{path: "/metrics", code: http.StatusOK},
		{path: "/healthz", code: http.StatusOK, body: `"service":"salesdash"`},
		{path: "/livez", code: http.StatusOK, body: "ok"},
		{path: "/readyz", code: http.StatusOK, body: "ready"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d%s", port, tc.path))
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			require.Equal(t, tc.code, resp.StatusCode)
			require.NotEmpty(t, body)
			if tc.body != "" {
				require.Contains(t, string(body), tc.body)
			}
		})
	}
}

func TestStartMetricsServer_ReadinessReflectsCheckers(t *testing.T) {
	logger := log.WithField("test", "http")
	port := findFreePort(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	healthHandler := healthcheck.NewHandler(serviceName, version.GetVersion())
	healthHandler.RegisterChecker("store", healthcheck.NewSimpleChecker("store", func() error {
		return fmt.Errorf("store offline")
	}))
	startMetricsServer(ctx, fmt.Sprintf("127.0.0.1:%d", port), time.Second, logger, healthHandler)
	waitForPort(t, port)

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/readyz", port))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, err = http.Get(fmt.Sprintf("http://127.0.0.1:%d/livez", port))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStartHTTPServer_ShutdownOnCancel(t *testing.T) {
	logger := log.WithField("test", "http")
	port := findFreePort(t)

	ctx, cancel := context.WithCancel(context.Background())
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	startHTTPServer(ctx, "test", fmt.Sprintf("127.0.0.1:%d", port), handler, time.Second, logger)
	waitForPort(t, port)

	cancel()

	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", fmt.Sprintf("127.0.0.1:%d", port), 50*time.Millisecond)
		if err != nil {
			return true
		}
		conn.Close()
		return false
	}, 2*time.Second, 20*time.Millisecond)
}

func TestShutdownHTTP_NilServer(_ *testing.T) {
	shutdownHTTP(nil, time.Second, log.WithField("test", "http"))
}

func TestNewHealthHandler_Components(t *testing.T) {
	deps, err := NewDependencies(DefaultConfig(), log.WithField("test", "health"))
	require.NoError(t, err)

	handler := newHealthHandler(deps, DefaultConfig())

	response := handler.Evaluate()
	require.Equal(t, "salesdash", response.Service)
	require.Contains(t, response.Checks, "store")
	require.Contains(t, response.Checks, "delivery-monitor")
	require.Contains(t, response.Checks, "outbox")
	require.Equal(t, healthcheck.StatusUnhealthy, response.Checks["delivery-monitor"].Status)
	require.Equal(t, healthcheck.StatusUnhealthy, response.Status)

	deps.Monitor.Scan(context.Background())

	response = handler.Evaluate()
	require.Equal(t, healthcheck.StatusHealthy, response.Status, "%+v", response.Checks)

	raw, err := json.Marshal(response)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"delivery-monitor"`)
}

// findFreePort находит свободный порт для тестов.
func findFreePort(t *testing.T) int {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	defer listener.Close()

	return listener.Addr().(*net.TCPAddr).Port
}

func waitForPort(t *testing.T, port int) {
	t.Helper()

	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", fmt.Sprintf("127.0.0.1:%d", port), 50*time.Millisecond)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 2*time.Second, 10*time.Millisecond)
}

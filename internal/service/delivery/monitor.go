// Package delivery содержит фоновую проверку сроков доставки.
package delivery

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/salesdash/internal/domain"
)

// DefaultInterval — период проверки по умолчанию.
const DefaultInterval = time.Minute

var (
	monitorRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salesdash_delivery_monitor_runs_total",
		Help: "Total number of delivery monitor scans grouped by result.",
	}, []string{"result"})
	monitorLastPromoted = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "salesdash_delivery_monitor_last_promoted",
		Help: "Number of sales moved to overdue during the last scan.",
	})
)

// OverdueMarker атомарно переводит просроченные pending продажи в overdue.
type OverdueMarker interface {
	MarkOverdue(now time.Time) ([]domain.Sale, error)
}

// MonitorOptions задаёт параметры монитора.
type MonitorOptions struct {
	Logger   *log.Entry
	Interval time.Duration
	Clock    func() time.Time
}

// Option настраивает Monitor.
type Option func(*MonitorOptions)

// WithLogger задаёт logger.
func WithLogger(logger *log.Entry) Option {
	return func(opts *MonitorOptions) {
		opts.Logger = logger
	}
}

// WithInterval задаёт период между проверками.
func WithInterval(interval time.Duration) Option {
	return func(opts *MonitorOptions) {
		opts.Interval = interval
	}
}

// WithClock подменяет источник времени.
func WithClock(clock func() time.Time) Option {
	return func(opts *MonitorOptions) {
		opts.Clock = clock
	}
}

// Monitor периодически переводит pending продажи с прошедшей датой доставки в overdue.
// Одна проверка выполняется сразу при запуске, затем раз в Interval до отмены ctx.
type Monitor struct {
	marker   OverdueMarker
	logger   *log.Entry
	interval time.Duration
	now      func() time.Time

	lastRun atomic.Int64
}

// NewMonitor создаёт монитор доставок.
func NewMonitor(marker OverdueMarker, options ...Option) *Monitor {
	opts := MonitorOptions{
		Interval: DefaultInterval,
	}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "delivery-monitor")
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Clock == nil {
		opts.Clock = func() time.Time { return time.Now().UTC() }
	}

	return &Monitor{
		marker:   marker,
		logger:   logger,
		interval: opts.Interval,
		now:      opts.Clock,
	}
}

// Interval возвращает период проверки.
func (m *Monitor) Interval() time.Duration {
	return m.interval
}

// Run выполняет проверки до отмены ctx.
func (m *Monitor) Run(ctx context.Context) {
	if m.marker == nil {
		m.logger.Warn("delivery monitor is disabled: marker is nil")
		return
	}

	m.Scan(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Scan(ctx)
		}
	}
}

// Scan выполняет одну проверку и возвращает число переведённых продаж.
func (m *Monitor) Scan(ctx context.Context) int {
	if ctx.Err() != nil {
		return 0
	}

	now := m.now()
	promoted, err := m.marker.MarkOverdue(now)
	if err != nil {
		monitorRunsTotal.WithLabelValues("error").Inc()
		m.logger.WithError(err).Warn("delivery monitor scan failed")
		return len(promoted)
	}

	m.lastRun.Store(now.UnixNano())
	monitorRunsTotal.WithLabelValues("ok").Inc()
	monitorLastPromoted.Set(float64(len(promoted)))
	if len(promoted) > 0 {
		m.logger.WithField("promoted", len(promoted)).Info("sales marked overdue")
	}
	return len(promoted)
}

// LastRun возвращает время последней успешной проверки или нулевое время.
func (m *Monitor) LastRun() time.Time {
	ns := m.lastRun.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns).UTC()
}

package sales

import (
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/salesdash/internal/domain"
)

// MetricsRecorder принимает метрики хранилища. Реализуется metrics.SalesMetrics.
type MetricsRecorder interface {
	RecordMutation(entity, operation, result string)
	RecordOverdueTransitions(count int)
	RecordCollectionSize(entity string, size int)
	RecordDashboard(stats domain.DashboardStats)
}

// StoreOptions задаёт необязательные зависимости Store.
type StoreOptions struct {
	Logger      *log.Entry
	Clock       func() time.Time
	IDGenerator func() string
	Timeline    domain.TimelineRepository
	Outbox      domain.OutboxRepository
	Metrics     MetricsRecorder
}

// Option настраивает Store.
type Option func(*StoreOptions)

// WithLogger задаёт logger.
func WithLogger(logger *log.Entry) Option {
	return func(opts *StoreOptions) {
		opts.Logger = logger
	}
}

// WithClock подменяет источник текущего времени (используется в тестах).
func WithClock(clock func() time.Time) Option {
	return func(opts *StoreOptions) {
		opts.Clock = clock
	}
}

// WithIDGenerator подменяет генератор идентификаторов. По умолчанию UUIDv4.
func WithIDGenerator(gen func() string) Option {
	return func(opts *StoreOptions) {
		opts.IDGenerator = gen
	}
}

// WithTimeline включает запись истории статусов.
func WithTimeline(repo domain.TimelineRepository) Option {
	return func(opts *StoreOptions) {
		opts.Timeline = repo
	}
}

// WithOutbox включает постановку событий продаж в outbox.
func WithOutbox(repo domain.OutboxRepository) Option {
	return func(opts *StoreOptions) {
		opts.Outbox = repo
	}
}

// WithMetrics задаёт приёмник метрик.
func WithMetrics(metrics MetricsRecorder) Option {
	return func(opts *StoreOptions) {
		opts.Metrics = metrics
	}
}

type noopMetrics struct{}

func (noopMetrics) RecordMutation(string, string, string) {}
func (noopMetrics) RecordOverdueTransitions(int)          {}
func (noopMetrics) RecordCollectionSize(string, int)      {}
func (noopMetrics) RecordDashboard(domain.DashboardStats) {}

func defaultClock() time.Time {
	return time.Now().UTC()
}

func defaultIDGenerator() string {
	return uuid.NewString()
}

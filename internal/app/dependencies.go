package app

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/salesdash/internal/domain"
	"github.com/vladislavdragonenkov/salesdash/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/salesdash/internal/metrics"
	"github.com/vladislavdragonenkov/salesdash/internal/service/delivery"
	"github.com/vladislavdragonenkov/salesdash/internal/service/notification"
	"github.com/vladislavdragonenkov/salesdash/internal/service/outbox"
	"github.com/vladislavdragonenkov/salesdash/internal/service/sales"
	"github.com/vladislavdragonenkov/salesdash/internal/service/users"
	"github.com/vladislavdragonenkov/salesdash/internal/storage/memory"
)

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	Products  domain.ProductRepository
	Customers domain.CustomerRepository
	Sales     domain.SaleRepository
	Timeline  domain.TimelineRepository
	Outbox    *memory.OutboxRepository
	UserRepo  domain.UserRepository

	Store         *sales.Store
	Monitor       *delivery.Monitor
	OutboxWorker  *outbox.Worker
	Notifications *notification.Service
	Users         *users.Directory

	Producer *kafka.Producer
	Logger   *log.Entry

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDependencies создаёт и связывает хранилище, фоновые задачи и публикацию событий.
func NewDependencies(cfg Config, logger *log.Entry) (*Dependencies, error) {
	return newDependencies(cfg, kafka.NewProducer, logger)
}

func newDependencies(cfg Config, dial kafkaDialer, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps := &Dependencies{
		Products:  memory.NewProductRepository(),
		Customers: memory.NewCustomerRepository(),
		Sales:     memory.NewSaleRepository(),
		Timeline:  memory.NewTimelineRepository(),
		Outbox:    memory.NewOutboxRepository(),
		UserRepo:  memory.NewUserRepository(),
		Logger:    logger,
	}
	salesMetrics := metrics.NewSalesMetrics()

	store, err := sales.NewStore(deps.Products, deps.Customers, deps.Sales,
		sales.WithLogger(logger.WithField("component", "sales-store")),
		sales.WithTimeline(deps.Timeline),
		sales.WithOutbox(deps.Outbox),
		sales.WithMetrics(salesMetrics),
	)
	if err != nil {
		return nil, fmt.Errorf("create sales store: %w", err)
	}
	deps.Store = store

	deps.Users, err = users.NewDirectory(deps.UserRepo,
		users.WithLogger(logger.WithField("component", "users")),
		users.WithClock(store.Now),
		users.WithMetrics(salesMetrics),
	)
	if err != nil {
		return nil, fmt.Errorf("create users directory: %w", err)
	}

	if cfg.SeedDemo {
		seeded, err := store.SeedDemo()
		if err != nil {
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
		seededUsers, err := deps.Users.SeedDemo()
		if err != nil {
			return nil, fmt.Errorf("seed demo users: %w", err)
		}
		logger.WithFields(log.Fields{
			"products":  len(seeded.Products),
			"customers": len(seeded.Customers),
			"sales":     len(seeded.Sales),
			"users":     len(seededUsers),
		}).Info("demo data seeded")
	}

	deps.Monitor = delivery.NewMonitor(store,
		delivery.WithLogger(logger.WithField("component", "delivery-monitor")),
		delivery.WithInterval(cfg.OverdueInterval),
		delivery.WithClock(store.Now),
	)

	producer, err := initKafkaProducer(cfg.KafkaBrokers, dial, logger)
	if err != nil {
		// Не фатально: initKafkaProducer уже записал предупреждение, события уйдут в лог.
		producer = nil
	}
	deps.Producer = producer

	deps.OutboxWorker = outbox.NewWorker(deps.Outbox, newOutboxPublisher(producer, cfg.KafkaTopic, logger),
		outbox.WithLogger(logger.WithField("component", "outbox-worker")),
		outbox.WithPollInterval(cfg.OutboxPollInterval),
		outbox.WithBatchSize(cfg.OutboxBatchSize),
		outbox.WithMaxAttempts(cfg.OutboxMaxAttempts),
	)

	deps.Notifications = notification.NewService(store, store.Now, logger.WithField("component", "notifications"))

	return deps, nil
}

// Start запускает delivery monitor и outbox worker.
func (d *Dependencies) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	d.wg.Add(2)
	go func() {
		defer d.wg.Done()
		d.Monitor.Run(ctx)
	}()
	go func() {
		defer d.wg.Done()
		d.OutboxWorker.Run(ctx)
	}()
}

// Close останавливает фоновые задачи, дожидается финального прохода outbox и закрывает Kafka.
func (d *Dependencies) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	d.wg.Wait()
	closeKafka(d.Producer, d.Logger)
}

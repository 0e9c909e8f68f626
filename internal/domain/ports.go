package domain

import "time"

// OutboxPublisher публикует события из outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(event OutboxMessage) error
}

// OutboxRepository позволяет сохранять события для последующей публикации.
type OutboxRepository interface {
	Enqueue(msg OutboxMessage) (OutboxMessage, error)
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}

// TimelineRepository хранит историю статусов продаж.
type TimelineRepository interface {
	Append(event TimelineEvent) error
	List(saleID string) ([]TimelineEvent, error)
}

// Типы событий продаж для outbox.
const (
	EventSaleCreated       = "sale.created"
	EventSaleUpdated       = "sale.updated"
	EventSaleStatusChanged = "sale.status_changed"
	EventSaleOverdue       = "sale.overdue"
	EventSaleDeleted       = "sale.deleted"

	AggregateSale = "sale"
)

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}

package kafka

import (
	"encoding/json"
	"time"

	"github.com/vladislavdragonenkov/salesdash/internal/domain"
)

// Topics для Kafka
const (
	TopicSaleEvents = "sales.sale.events"
)

// Kafka headers
const (
	HeaderEventType     = "x-event-type"
	HeaderAggregateType = "x-aggregate-type"
)

// SaleEventEnvelope — формат сообщения о продаже в топике.
type SaleEventEnvelope struct {
	ID            string          `json:"id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     string          `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	PublishedAt   time.Time       `json:"published_at"`
}

// NewSaleEventEnvelope оборачивает outbox-сообщение. Пустой payload заменяется на null.
func NewSaleEventEnvelope(msg domain.OutboxMessage, publishedAt time.Time) SaleEventEnvelope {
	payload := json.RawMessage(msg.Payload)
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}
	return SaleEventEnvelope{
		ID:            msg.ID,
		AggregateType: msg.AggregateType,
		AggregateID:   msg.AggregateID,
		EventType:     msg.EventType,
		Payload:       payload,
		PublishedAt:   publishedAt.UTC(),
	}
}

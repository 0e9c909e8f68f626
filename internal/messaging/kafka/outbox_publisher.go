package kafka

import (
	"errors"
	"time"

	"github.com/IBM/sarama"

	"github.com/vladislavdragonenkov/salesdash/internal/domain"
)

// SaleEventPublisher публикует события продаж из outbox в Kafka.
// Ключ сообщения равен ID продажи, поэтому события одной продажи попадают в одну партицию.
type SaleEventPublisher struct {
	producer *Producer
	topic    string
	now      func() time.Time
}

// NewSaleEventPublisher создаёт паблишер. Пустой topic заменяется на TopicSaleEvents.
func NewSaleEventPublisher(producer *Producer, topic string) *SaleEventPublisher {
	if topic == "" {
		topic = TopicSaleEvents
	}
	return &SaleEventPublisher{
		producer: producer,
		topic:    topic,
		now:      time.Now,
	}
}

// Topic возвращает целевой топик.
func (p *SaleEventPublisher) Topic() string {
	return p.topic
}

func (p *SaleEventPublisher) Publish(event domain.OutboxMessage) error {
	if p == nil || p.producer == nil {
		return errors.New("kafka sale event publisher is not initialized")
	}

	key := event.AggregateID
	if key == "" {
		key = event.ID
	}

	return p.producer.PublishEvent(p.topic, key, NewSaleEventEnvelope(event, p.now()),
		sarama.RecordHeader{Key: []byte(HeaderEventType), Value: []byte(event.EventType)},
		sarama.RecordHeader{Key: []byte(HeaderAggregateType), Value: []byte(event.AggregateType)},
	)
}

var _ domain.OutboxPublisher = (*SaleEventPublisher)(nil)

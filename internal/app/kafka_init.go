package app

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/salesdash/internal/domain"
	"github.com/vladislavdragonenkov/salesdash/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/salesdash/internal/service/outbox"
)

// kafkaDialer позволяет подменить создание producer в тестах.
type kafkaDialer func(brokers []string) (*kafka.Producer, error)

// initKafkaProducer инициализирует Kafka producer если brokers не пустой.
// Возвращает nil, nil если brokers пустой.
func initKafkaProducer(brokers []string, dial kafkaDialer, logger *log.Entry) (*kafka.Producer, error) {
	brokerList := make([]string, 0, len(brokers))
	for _, broker := range brokers {
		if trimmed := strings.TrimSpace(broker); trimmed != "" {
			brokerList = append(brokerList, trimmed)
		}
	}
	if len(brokerList) == 0 {
		return nil, nil
	}

	producer, err := dial(brokerList)
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		return nil, err
	}

	logger.WithField("brokers", brokerList).Info("kafka producer initialized")
	return producer, nil
}

// newOutboxPublisher выбирает публикацию в Kafka или в лог, если producer не настроен.
func newOutboxPublisher(producer *kafka.Producer, topic string, logger *log.Entry) domain.OutboxPublisher {
	if producer == nil {
		return outbox.NewLogPublisher(logger.WithField("publisher", "log"))
	}
	return kafka.NewSaleEventPublisher(producer, topic)
}

// closeKafka закрывает Kafka producer если он не nil.
func closeKafka(producer *kafka.Producer, logger *log.Entry) {
	if producer == nil {
		return
	}

	if err := producer.Close(); err != nil {
		logger.WithError(err).Warn("failed to close kafka producer")
	} else {
		logger.Info("kafka producer closed")
	}
}

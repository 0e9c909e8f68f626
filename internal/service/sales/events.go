package sales

import (
	"encoding/json"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/salesdash/internal/domain"
)

// SaleEventPayload — тело события продажи в outbox.
type SaleEventPayload struct {
	SaleID         string  `json:"sale_id"`
	ProductID      string  `json:"product_id"`
	ProductName    string  `json:"product_name"`
	CustomerID     string  `json:"customer_id"`
	CustomerName   string  `json:"customer_name"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	TotalAmount    float64 `json:"total_amount"`
	Status         string  `json:"status"`
	PreviousStatus string  `json:"previous_status,omitempty"`
	SaleDate       string  `json:"sale_date"`
	DeliveryDate   string  `json:"delivery_date"`
	SalesPersonID  string  `json:"sales_person_id,omitempty"`
}

func newSaleEventPayload(sale domain.Sale, previous domain.SaleStatus) SaleEventPayload {
	return SaleEventPayload{
		SaleID:         sale.ID,
		ProductID:      sale.ProductID,
		ProductName:    sale.ProductName,
		CustomerID:     sale.CustomerID,
		CustomerName:   sale.CustomerName,
		Quantity:       sale.Quantity,
		UnitPrice:      sale.UnitPrice,
		TotalAmount:    sale.TotalAmount,
		Status:         string(sale.Status),
		PreviousStatus: string(previous),
		SaleDate:       sale.SaleDate.Format(time.DateOnly),
		DeliveryDate:   sale.DeliveryDate.Format(time.DateOnly),
		SalesPersonID:  sale.SalesPersonID,
	}
}

// enqueueLocked ставит событие в outbox. Ошибка outbox не отменяет мутацию:
// состояние хранилища первично, событие лишь логируется как потерянное.
func (s *Store) enqueueLocked(eventType string, sale domain.Sale, previous domain.SaleStatus) {
	if s.outbox == nil {
		return
	}

	payload, err := json.Marshal(newSaleEventPayload(sale, previous))
	if err != nil {
		s.logger.WithError(err).WithField("sale_id", sale.ID).Warn("failed to marshal sale event")
		return
	}

	msg := domain.OutboxMessage{
		ID:            s.newID(),
		AggregateType: domain.AggregateSale,
		AggregateID:   sale.ID,
		EventType:     eventType,
		Payload:       payload,
	}
	if _, err := s.outbox.Enqueue(msg); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"sale_id":    sale.ID,
			"event_type": eventType,
		}).Warn("failed to enqueue sale event")
	}
}

// Package notification выводит уведомления из текущего набора продаж.
package notification

import (
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/salesdash/internal/domain"
)

// SalesSource отдаёт текущий снимок продаж.
type SalesSource interface {
	Sales() ([]domain.Sale, error)
}

// Service строит уведомления по запросу и хранит только множество скрытых ID.
type Service struct {
	source SalesSource
	now    func() time.Time
	logger *log.Entry

	mu        sync.RWMutex
	dismissed map[string]struct{}
}

// NewService создаёт сервис уведомлений. now может быть nil.
func NewService(source SalesSource, now func() time.Time, logger *log.Entry) *Service {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	if logger == nil {
		logger = log.WithField("component", "notifications")
	}
	return &Service{
		source:    source,
		now:       now,
		logger:    logger,
		dismissed: make(map[string]struct{}),
	}
}

// All возвращает все уведомления, включая скрытые: сначала просрочки, затем напоминания.
func (s *Service) All() ([]domain.Notification, error) {
	sales, err := s.source.Sales()
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}

	tomorrow := domain.DateOf(s.now()).AddDate(0, 0, 1)

	overdue := lo.FilterMap(sales, func(sale domain.Sale, _ int) (domain.Notification, bool) {
		if sale.Status != domain.SaleStatusOverdue {
			return domain.Notification{}, false
		}
		return domain.Notification{
			ID:           "overdue-" + sale.ID,
			Type:         domain.NotificationWarning,
			Title:        "Overdue Delivery",
			Message:      fmt.Sprintf("Delivery for %s to %s is overdue", sale.ProductName, sale.CustomerName),
			Action:       "Contact Customer",
			SaleID:       sale.ID,
			CustomerName: sale.CustomerName,
			ProductName:  sale.ProductName,
			DueDate:      sale.DeliveryDate,
		}, true
	})

	reminders := lo.FilterMap(sales, func(sale domain.Sale, _ int) (domain.Notification, bool) {
		if sale.Status != domain.SaleStatusPending || !domain.DateOf(sale.DeliveryDate).Equal(tomorrow) {
			return domain.Notification{}, false
		}
		return domain.Notification{
			ID:           "reminder-" + sale.ID,
			Type:         domain.NotificationInfo,
			Title:        "Delivery Reminder",
			Message:      fmt.Sprintf("%s delivery to %s is scheduled for tomorrow", sale.ProductName, sale.CustomerName),
			Action:       "Prepare Delivery",
			SaleID:       sale.ID,
			CustomerName: sale.CustomerName,
			ProductName:  sale.ProductName,
			DueDate:      sale.DeliveryDate,
		}, true
	})

	return append(overdue, reminders...), nil
}

// List возвращает нескрытые уведомления.
func (s *Service) List() ([]domain.Notification, error) {
	all, err := s.All()
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Filter(all, func(n domain.Notification, _ int) bool {
		_, hidden := s.dismissed[n.ID]
		return !hidden
	}), nil
}

// UnreadCount — число нескрытых уведомлений.
func (s *Service) UnreadCount() (int, error) {
	visible, err := s.List()
	if err != nil {
		return 0, err
	}
	return len(visible), nil
}

// Dismiss скрывает уведомление. Неизвестный ID тоже запоминается.
func (s *Service) Dismiss(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dismissed[id] = struct{}{}
}

// DismissAll скрывает все текущие уведомления.
func (s *Service) DismissAll() error {
	all, err := s.All()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range all {
		s.dismissed[n.ID] = struct{}{}
	}
	s.logger.WithField("dismissed", len(all)).Debug("notifications dismissed")
	return nil
}

// Restore возвращает все скрытые уведомления.
func (s *Service) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dismissed = make(map[string]struct{})
}

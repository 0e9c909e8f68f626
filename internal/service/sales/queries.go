package sales

import (
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/salesdash/internal/domain"
	"github.com/vladislavdragonenkov/salesdash/internal/service/stats"
)

// Products возвращает товары в порядке добавления.
func (s *Store) Products() ([]domain.Product, error) {
	return s.products.List()
}

// Customers возвращает клиентов в порядке добавления.
func (s *Store) Customers() ([]domain.Customer, error) {
	return s.customers.List()
}

// Sales возвращает продажи в порядке оформления.
func (s *Store) Sales() ([]domain.Sale, error) {
	return s.sales.List()
}

// Product возвращает товар по ID.
func (s *Store) Product(id string) (domain.Product, error) {
	return s.products.Get(id)
}

// Customer возвращает клиента по ID.
func (s *Store) Customer(id string) (domain.Customer, error) {
	return s.customers.Get(id)
}

// Sale возвращает продажу по ID.
func (s *Store) Sale(id string) (domain.Sale, error) {
	return s.sales.Get(id)
}

// DashboardStats возвращает сводку, пересчитанную после последней мутации продаж.
func (s *Store) DashboardStats() domain.DashboardStats {
	if current := s.dashboard.Load(); current != nil {
		return *current
	}
	return domain.DashboardStats{}
}

// CustomerStats считает статистику клиента по текущим продажам.
// Для неизвестного клиента возвращаются нулевые агрегаты.
func (s *Store) CustomerStats(customerID string) (domain.CustomerStats, error) {
	sales, err := s.sales.List()
	if err != nil {
		return domain.CustomerStats{}, fmt.Errorf("list sales: %w", err)
	}
	return stats.Customer(customerID, sales), nil
}

// ProductStats считает статистику товара по текущим продажам.
func (s *Store) ProductStats(productID string) (domain.ProductStats, error) {
	sales, err := s.sales.List()
	if err != nil {
		return domain.ProductStats{}, fmt.Errorf("list sales: %w", err)
	}
	return stats.Product(productID, sales), nil
}

// Trend возвращает продажи по дням за последние days дней.
func (s *Store) Trend(days int) ([]domain.TrendPoint, error) {
	sales, err := s.sales.List()
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return stats.DailyTrend(sales, s.now(), days), nil
}

// Analytics возвращает показатели текущего месяца и топ товаров.
func (s *Store) Analytics() (domain.Analytics, error) {
	sales, err := s.sales.List()
	if err != nil {
		return domain.Analytics{}, fmt.Errorf("list sales: %w", err)
	}
	return stats.Analytics(sales, s.now()), nil
}

// Timeline возвращает историю статусов продажи.
func (s *Store) Timeline(saleID string) ([]domain.TimelineEvent, error) {
	if s.timeline == nil {
		return nil, nil
	}
	return s.timeline.List(saleID)
}

// Now возвращает текущее время по часам хранилища.
func (s *Store) Now() time.Time {
	return s.now()
}

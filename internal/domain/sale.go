package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus описывает состояние доставки по продаже.
type SaleStatus string

const (
	// SaleStatusPending — продажа оформлена, доставка ещё не подтверждена.
	SaleStatusPending SaleStatus = "pending"
	// SaleStatusConfirmed — доставка подтверждена.
	SaleStatusConfirmed SaleStatus = "confirmed"
	// SaleStatusDelivered — товар доставлен клиенту.
	SaleStatusDelivered SaleStatus = "delivered"
	// SaleStatusOverdue — срок доставки прошёл, пока продажа оставалась pending.
	SaleStatusOverdue SaleStatus = "overdue"
)

// SaleStatuses перечисляет все допустимые статусы.
var SaleStatuses = []SaleStatus{
	SaleStatusPending,
	SaleStatusConfirmed,
	SaleStatusDelivered,
	SaleStatusOverdue,
}

// Valid сообщает, является ли статус допустимым.
func (s SaleStatus) Valid() bool {
	switch s {
	case SaleStatusPending, SaleStatusConfirmed, SaleStatusDelivered, SaleStatusOverdue:
		return true
	default:
		return false
	}
}

// ParseSaleStatus разбирает строку без учёта регистра.
func ParseSaleStatus(raw string) (SaleStatus, error) {
	status := SaleStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrSaleStatusInvalid, raw)
	}
	return status, nil
}

// Sale хранит продажу вместе со снимками товара, клиента и продавца на момент оформления.
type Sale struct {
	ID string
	// ProductName и UnitPrice хранят снимок товара; последующие правки товара их не меняют.
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   float64
	// TotalAmount всегда равен LineTotal(Quantity, UnitPrice).
	TotalAmount  float64
	SaleDate     time.Time
	DeliveryDate time.Time
	Status       SaleStatus
	CustomerID   string
	CustomerName string
	// SalesPerson* фиксируют личность, оформившую продажу.
	SalesPersonID   string
	SalesPersonName string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SaleInput содержит данные формы создания продажи. Снимки и сумму вычисляет хранилище.
type SaleInput struct {
	ProductID    string
	CustomerID   string
	Quantity     int
	SaleDate     time.Time
	DeliveryDate time.Time
}

// LineTotal вычисляет quantity * unitPrice. Произведение считается точно и
// без округления, в float64 переводится только результат.
func LineTotal(quantity int, unitPrice float64) float64 {
	return decimal.NewFromFloat(unitPrice).
		Mul(decimal.NewFromInt(int64(quantity))).
		InexactFloat64()
}

// DateOf отбрасывает время суток и приводит дату к полуночи UTC того же календарного дня.
func DateOf(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsOverdueAt сообщает, должна ли продажа стать overdue в момент now.
// Продажа со сроком «сегодня» ещё не просрочена.
func (s *Sale) IsOverdueAt(now time.Time) bool {
	return s.Status == SaleStatusPending && DateOf(s.DeliveryDate).Before(DateOf(now))
}

// ValidateInvariants проверяет инварианты продажи и возвращает список замечаний.
func (s *Sale) ValidateInvariants() []error {
	var errs []error

	if s.ProductID == "" || s.ProductName == "" {
		errs = append(errs, ErrProductRequired)
	}
	if s.CustomerID == "" || s.CustomerName == "" {
		errs = append(errs, ErrCustomerRequired)
	}
	if s.Quantity <= 0 {
		errs = append(errs, ErrQuantityInvalid)
	}
	if s.UnitPrice < 0 {
		errs = append(errs, ErrPriceNegative)
	}
	if s.SaleDate.IsZero() {
		errs = append(errs, ErrSaleDateRequired)
	}
	if s.DeliveryDate.IsZero() {
		errs = append(errs, ErrDeliveryDateRequired)
	}
	if !s.Status.Valid() {
		errs = append(errs, ErrSaleStatusInvalid)
	}
	if s.TotalAmount != LineTotal(s.Quantity, s.UnitPrice) {
		errs = append(errs, ErrAmountMismatch)
	}

	return errs
}

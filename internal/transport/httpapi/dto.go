package httpapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/salesdash/internal/domain"
)

// dateLayout — формат дат в API.
const dateLayout = time.DateOnly

type ProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Description string  `json:"description"`
}

func (r ProductRequest) toInput() domain.ProductInput {
	return domain.ProductInput{
		Name:        strings.TrimSpace(r.Name),
		Category:    strings.TrimSpace(r.Category),
		Price:       r.Price,
		Stock:       r.Stock,
		Description: r.Description,
	}
}

type ProductResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Description string  `json:"description,omitempty"`
}

func fromProduct(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		Description: p.Description,
	}
}

type CustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Status  string `json:"status"`
}

func (r CustomerRequest) toInput() domain.CustomerInput {
	return domain.CustomerInput{
		Name:    strings.TrimSpace(r.Name),
		Email:   strings.TrimSpace(r.Email),
		Phone:   r.Phone,
		Address: r.Address,
		Status:  domain.CustomerStatus(strings.ToLower(strings.TrimSpace(r.Status))),
	}
}

type CustomerResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Status  string `json:"status"`
}

func fromCustomer(c domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:      c.ID,
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
		Status:  string(c.Status),
	}
}

// SaleRequest используется и для создания, и для полного обновления продажи.
// Снимки товара и клиента, цена и сумма вычисляются сервером.
type SaleRequest struct {
	ProductID    string `json:"productId" binding:"required"`
	CustomerID   string `json:"customerId" binding:"required"`
	Quantity     int    `json:"quantity"`
	SaleDate     string `json:"saleDate"`
	DeliveryDate string `json:"deliveryDate" binding:"required"`
	Status       string `json:"status"`
}

func (r SaleRequest) dates() (saleDate, deliveryDate time.Time, err error) {
	if r.SaleDate != "" {
		if saleDate, err = time.Parse(dateLayout, r.SaleDate); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: saleDate: %w", domain.ErrValidation, err)
		}
	}
	if deliveryDate, err = time.Parse(dateLayout, r.DeliveryDate); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: deliveryDate: %w", domain.ErrValidation, err)
	}
	return saleDate, deliveryDate, nil
}

func (r SaleRequest) toInput() (domain.SaleInput, error) {
	saleDate, deliveryDate, err := r.dates()
	if err != nil {
		return domain.SaleInput{}, err
	}
	return domain.SaleInput{
		ProductID:    r.ProductID,
		CustomerID:   r.CustomerID,
		Quantity:     r.Quantity,
		SaleDate:     saleDate,
		DeliveryDate: deliveryDate,
	}, nil
}

func (r SaleRequest) toSale(id string) (domain.Sale, error) {
	saleDate, deliveryDate, err := r.dates()
	if err != nil {
		return domain.Sale{}, err
	}
	if saleDate.IsZero() {
		return domain.Sale{}, fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrSaleDateRequired)
	}

	var status domain.SaleStatus
	if r.Status != "" {
		if status, err = domain.ParseSaleStatus(r.Status); err != nil {
			return domain.Sale{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
	}

	return domain.Sale{
		ID:           id,
		ProductID:    r.ProductID,
		CustomerID:   r.CustomerID,
		Quantity:     r.Quantity,
		SaleDate:     saleDate,
		DeliveryDate: deliveryDate,
		Status:       status,
	}, nil
}

type SaleStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type SaleResponse struct {
	ID              string  `json:"id"`
	ProductID       string  `json:"productId"`
	ProductName     string  `json:"productName"`
	Quantity        int     `json:"quantity"`
	UnitPrice       float64 `json:"unitPrice"`
	TotalAmount     float64 `json:"totalAmount"`
	SaleDate        string  `json:"saleDate"`
	DeliveryDate    string  `json:"deliveryDate"`
	Status          string  `json:"status"`
	CustomerID      string  `json:"customerId"`
	CustomerName    string  `json:"customerName"`
	SalesPersonID   string  `json:"salesPersonId"`
	SalesPersonName string  `json:"salesPersonName"`
}

func fromSale(s domain.Sale) SaleResponse {
	return SaleResponse{
		ID:              s.ID,
		ProductID:       s.ProductID,
		ProductName:     s.ProductName,
		Quantity:        s.Quantity,
		UnitPrice:       s.UnitPrice,
		TotalAmount:     s.TotalAmount,
		SaleDate:        formatDate(s.SaleDate),
		DeliveryDate:    formatDate(s.DeliveryDate),
		Status:          string(s.Status),
		CustomerID:      s.CustomerID,
		CustomerName:    s.CustomerName,
		SalesPersonID:   s.SalesPersonID,
		SalesPersonName: s.SalesPersonName,
	}
}

type DashboardStatsResponse struct {
	TotalSales        int     `json:"totalSales"`
	TotalRevenue      float64 `json:"totalRevenue"`
	PendingDeliveries int     `json:"pendingDeliveries"`
	OverdueDeliveries int     `json:"overdueDeliveries"`
}

type CustomerStatsResponse struct {
	CustomerID     string   `json:"customerId"`
	TotalPurchases int      `json:"totalPurchases"`
	TotalSpent     float64  `json:"totalSpent"`
	LastPurchase   *string  `json:"lastPurchase"`
	RecentProducts []string `json:"recentProducts"`
}

type ProductStatsResponse struct {
	ProductID  string  `json:"productId"`
	TotalSales int     `json:"totalSales"`
	UnitsSold  int     `json:"unitsSold"`
	Revenue    float64 `json:"revenue"`
	LastSale   *string `json:"lastSale"`
}

type TrendPointResponse struct {
	Date    string  `json:"date"`
	Sales   int     `json:"sales"`
	Revenue float64 `json:"revenue"`
}

type ProductPerformanceResponse struct {
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Revenue     float64 `json:"revenue"`
}

type AnalyticsResponse struct {
	MonthlySales   int                          `json:"monthlySales"`
	MonthlyRevenue float64                      `json:"monthlyRevenue"`
	TopProducts    []ProductPerformanceResponse `json:"topProducts"`
}

type TimelineEventResponse struct {
	From     string    `json:"from,omitempty"`
	To       string    `json:"to"`
	Source   string    `json:"source"`
	Occurred time.Time `json:"occurred"`
}

type NotificationResponse struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Title        string `json:"title"`
	Message      string `json:"message"`
	Action       string `json:"action"`
	SaleID       string `json:"saleId"`
	CustomerName string `json:"customerName"`
	ProductName  string `json:"productName"`
	DueDate      string `json:"dueDate"`
}

type NotificationsResponse struct {
	Items       []NotificationResponse `json:"items"`
	UnreadCount int                    `json:"unreadCount"`
}

func fromNotification(n domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:           n.ID,
		Type:         string(n.Type),
		Title:        n.Title,
		Message:      n.Message,
		Action:       n.Action,
		SaleID:       n.SaleID,
		CustomerName: n.CustomerName,
		ProductName:  n.ProductName,
		DueDate:      formatDate(n.DueDate),
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// optionalDate отдаёт null для нулевой даты.
func optionalDate(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

type UserRequest struct {
	Name   string `json:"name" binding:"required"`
	Email  string `json:"email" binding:"required"`
	Role   string `json:"role" binding:"required"`
	Status string `json:"status"`
}

func (r UserRequest) toInput() domain.UserInput {
	return domain.UserInput{
		Name:   strings.TrimSpace(r.Name),
		Email:  strings.TrimSpace(r.Email),
		Role:   domain.Role(strings.ToLower(strings.TrimSpace(r.Role))),
		Status: domain.UserStatus(strings.ToLower(strings.TrimSpace(r.Status))),
	}
}

// UserPatchRequest меняет только переданные поля.
type UserPatchRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

func (r UserPatchRequest) toPatch() domain.UserPatch {
	var patch domain.UserPatch
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		patch.Name = &name
	}
	if r.Email != nil {
		email := strings.TrimSpace(*r.Email)
		patch.Email = &email
	}
	if r.Role != nil {
		role := domain.Role(strings.ToLower(strings.TrimSpace(*r.Role)))
		patch.Role = &role
	}
	if r.Status != nil {
		status := domain.UserStatus(strings.ToLower(strings.TrimSpace(*r.Status)))
		patch.Status = &status
	}
	return patch
}

type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

func fromUser(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

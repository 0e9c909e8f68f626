// Package httpapi реализует REST API панели продаж на gin.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/salesdash/internal/domain"
	"github.com/vladislavdragonenkov/salesdash/internal/service/sales"
)

const (
	defaultTrendDays = 7
	maxTrendDays     = 366
	allStatuses      = "all"
)

// Store — операции хранилища, которые использует API.
type Store interface {
	AddProduct(in domain.ProductInput) (domain.Product, error)
	UpdateProduct(product domain.Product) (bool, error)
	DeleteProduct(id string) (bool, error)
	Products() ([]domain.Product, error)
	ProductStats(productID string) (domain.ProductStats, error)

	AddCustomer(in domain.CustomerInput) (domain.Customer, error)
	UpdateCustomer(customer domain.Customer) (bool, error)
	DeleteCustomer(id string) (bool, error)
	Customers() ([]domain.Customer, error)
	CustomerStats(customerID string) (domain.CustomerStats, error)

	AddSale(in domain.SaleInput, actor domain.Identity) (domain.Sale, error)
	UpdateSale(sale domain.Sale) (domain.Sale, bool, error)
	UpdateSaleStatus(id string, status domain.SaleStatus) (domain.Sale, bool, error)
	DeleteSale(id string) (bool, error)
	Sales() ([]domain.Sale, error)
	Sale(id string) (domain.Sale, error)
	Timeline(saleID string) ([]domain.TimelineEvent, error)

	DashboardStats() domain.DashboardStats
	Trend(days int) ([]domain.TrendPoint, error)
	Analytics() (domain.Analytics, error)

	SeedDemo() (sales.SeedResult, error)
}

// Notifications — проекция уведомлений.
type Notifications interface {
	List() ([]domain.Notification, error)
	UnreadCount() (int, error)
	Dismiss(id string)
	DismissAll() error
	Restore()
}

// Users — справочник пользователей для раздела администрирования.
type Users interface {
	Add(in domain.UserInput) (domain.User, error)
	Update(id string, patch domain.UserPatch) (domain.User, bool, error)
	Delete(id string) (bool, error)
	Get(id string) (domain.User, error)
	List() ([]domain.User, error)
}

// OverdueScanner запускает внеочередную проверку просрочек.
type OverdueScanner interface {
	Scan(ctx context.Context) int
}

// Handler обслуживает REST API.
type Handler struct {
	store         Store
	notifications Notifications
	users         Users
	scanner       OverdueScanner
	logger        *log.Entry
}

// NewHandler создаёт обработчик. users и scanner могут быть nil: тогда маршруты
// справочника пользователей не регистрируются, а ручная проверка просрочек недоступна.
func NewHandler(store Store, notifications Notifications, users Users, scanner OverdueScanner, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.WithField("component", "http-api")
	}
	return &Handler{
		store:         store,
		notifications: notifications,
		users:         users,
		scanner:       scanner,
		logger:        logger,
	}
}

// --- products ---

// ListProducts обрабатывает GET /products с фильтром ?category и сортировкой ?sort, ?order.
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.store.Products()
	if err != nil {
		h.fail(c, err)
		return
	}

	filtered := sales.FilterProducts(products, sales.ProductQuery{
		Category:   c.Query("category"),
		SortBy:     sales.ProductSortField(c.Query("sort")),
		Descending: strings.EqualFold(c.Query("order"), "desc"),
	})
	c.JSON(http.StatusOK, lo.Map(filtered, func(p domain.Product, _ int) ProductResponse {
		return fromProduct(p)
	}))
}

// ListCategories обрабатывает GET /products/categories.
func (h *Handler) ListCategories(c *gin.Context) {
	products, err := h.store.Products()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sales.Categories(products))
}

// CreateProduct обрабатывает POST /products.
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := h.store.AddProduct(req.toInput())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromProduct(product))
}

// UpdateProduct обрабатывает PUT /products/:id. Отсутствующий товар даёт 404.
func (h *Handler) UpdateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product := req.toInput().ToProduct(c.Param("id"))
	applied, err := h.store.UpdateProduct(product)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !applied {
		notFound(c, "product")
		return
	}
	c.JSON(http.StatusOK, fromProduct(product))
}

// DeleteProduct обрабатывает DELETE /products/:id. Продажи сохраняют снимок товара.
func (h *Handler) DeleteProduct(c *gin.Context) {
	h.deleteByID(c, "product", h.store.DeleteProduct)
}

// ProductStats обрабатывает GET /products/:id/stats.
func (h *Handler) ProductStats(c *gin.Context) {
	stats, err := h.store.ProductStats(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ProductStatsResponse{
		ProductID:  stats.ProductID,
		TotalSales: stats.TotalSales,
		UnitsSold:  stats.UnitsSold,
		Revenue:    stats.Revenue,
		LastSale:   optionalDate(stats.LastSale),
	})
}

// --- customers ---

// ListCustomers обрабатывает GET /customers, клиенты отсортированы по имени.
func (h *Handler) ListCustomers(c *gin.Context) {
	customers, err := h.store.Customers()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lo.Map(sales.SortCustomersByName(customers), func(cu domain.Customer, _ int) CustomerResponse {
		return fromCustomer(cu)
	}))
}

// CreateCustomer обрабатывает POST /customers.
func (h *Handler) CreateCustomer(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	customer, err := h.store.AddCustomer(req.toInput())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromCustomer(customer))
}

// UpdateCustomer обрабатывает PUT /customers/:id.
func (h *Handler) UpdateCustomer(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	customer := req.toInput().ToCustomer(c.Param("id"))
	applied, err := h.store.UpdateCustomer(customer)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !applied {
		notFound(c, "customer")
		return
	}
	c.JSON(http.StatusOK, fromCustomer(customer))
}

// DeleteCustomer обрабатывает DELETE /customers/:id.
func (h *Handler) DeleteCustomer(c *gin.Context) {
	h.deleteByID(c, "customer", h.store.DeleteCustomer)
}

// CustomerStats обрабатывает GET /customers/:id/stats.
func (h *Handler) CustomerStats(c *gin.Context) {
	stats, err := h.store.CustomerStats(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	recent := stats.RecentProducts
	if recent == nil {
		recent = []string{}
	}
	c.JSON(http.StatusOK, CustomerStatsResponse{
		CustomerID:     stats.CustomerID,
		TotalPurchases: stats.TotalPurchases,
		TotalSpent:     stats.TotalSpent,
		LastPurchase:   optionalDate(stats.LastPurchase),
		RecentProducts: recent,
	})
}

// --- sales ---

// ListSales обрабатывает GET /sales с необязательным ?status.
func (h *Handler) ListSales(c *gin.Context) {
	list, err := h.store.Sales()
	if err != nil {
		h.fail(c, err)
		return
	}

	if raw := c.Query("status"); raw != "" && raw != allStatuses {
		status, err := domain.ParseSaleStatus(raw)
		if err != nil {
			badRequest(c, err)
			return
		}
		list = lo.Filter(list, func(s domain.Sale, _ int) bool { return s.Status == status })
	}

	c.JSON(http.StatusOK, lo.Map(list, func(s domain.Sale, _ int) SaleResponse {
		return fromSale(s)
	}))
}

// GetSale обрабатывает GET /sales/:id.
func (h *Handler) GetSale(c *gin.Context) {
	sale, err := h.store.Sale(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, fromSale(sale))
}

// CreateSale обрабатывает POST /sales. Продавец берётся из заголовков идентификации.
func (h *Handler) CreateSale(c *gin.Context) {
	var req SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		h.fail(c, err)
		return
	}

	sale, err := h.store.AddSale(in, identityFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromSale(sale))
}

// UpdateSale обрабатывает PUT /sales/:id.
func (h *Handler) UpdateSale(c *gin.Context) {
	var req SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	sale, err := req.toSale(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	updated, applied, err := h.store.UpdateSale(sale)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !applied {
		notFound(c, "sale")
		return
	}
	c.JSON(http.StatusOK, fromSale(updated))
}

// UpdateSaleStatus обрабатывает PATCH /sales/:id/status.
func (h *Handler) UpdateSaleStatus(c *gin.Context) {
	var req SaleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	status, err := domain.ParseSaleStatus(req.Status)
	if err != nil {
		badRequest(c, err)
		return
	}

	updated, applied, err := h.store.UpdateSaleStatus(c.Param("id"), status)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !applied {
		notFound(c, "sale")
		return
	}
	c.JSON(http.StatusOK, fromSale(updated))
}

// DeleteSale обрабатывает DELETE /sales/:id.
func (h *Handler) DeleteSale(c *gin.Context) {
	h.deleteByID(c, "sale", h.store.DeleteSale)
}

// SaleTimeline обрабатывает GET /sales/:id/timeline.
func (h *Handler) SaleTimeline(c *gin.Context) {
	if _, err := h.store.Sale(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	events, err := h.store.Timeline(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lo.Map(events, func(e domain.TimelineEvent, _ int) TimelineEventResponse {
		return TimelineEventResponse{
			From:     string(e.From),
			To:       string(e.To),
			Source:   string(e.Source),
			Occurred: e.Occurred,
		}
	}))
}

// --- dashboard & reports ---

// DashboardStats обрабатывает GET /dashboard/stats.
func (h *Handler) DashboardStats(c *gin.Context) {
	stats := h.store.DashboardStats()
	c.JSON(http.StatusOK, DashboardStatsResponse{
		TotalSales:        stats.TotalSales,
		TotalRevenue:      stats.TotalRevenue,
		PendingDeliveries: stats.PendingDeliveries,
		OverdueDeliveries: stats.OverdueDeliveries,
	})
}

// Trend обрабатывает GET /dashboard/trend?days=N.
func (h *Handler) Trend(c *gin.Context) {
	days := defaultTrendDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxTrendDays {
			abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", "days must be between 1 and 366")
			return
		}
		days = parsed
	}

	points, err := h.store.Trend(days)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lo.Map(points, func(p domain.TrendPoint, _ int) TrendPointResponse {
		return TrendPointResponse{Date: formatDate(p.Date), Sales: p.Sales, Revenue: p.Revenue}
	}))
}

// Analytics обрабатывает GET /reports/analytics.
func (h *Handler) Analytics(c *gin.Context) {
	analytics, err := h.store.Analytics()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, AnalyticsResponse{
		MonthlySales:   analytics.MonthlySales,
		MonthlyRevenue: analytics.MonthlyRevenue,
		TopProducts: lo.Map(analytics.TopProducts, func(p domain.ProductPerformance, _ int) ProductPerformanceResponse {
			return ProductPerformanceResponse{ProductName: p.ProductName, Quantity: p.Quantity, Revenue: p.Revenue}
		}),
	})
}

// --- notifications ---

// ListNotifications обрабатывает GET /notifications.
func (h *Handler) ListNotifications(c *gin.Context) {
	list, err := h.notifications.List()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, NotificationsResponse{
		Items: lo.Map(list, func(n domain.Notification, _ int) NotificationResponse {
			return fromNotification(n)
		}),
		UnreadCount: len(list),
	})
}

// UnreadCount отдаёт только счётчик для значка уведомлений.
func (h *Handler) UnreadCount(c *gin.Context) {
	count, err := h.notifications.UnreadCount()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unreadCount": count})
}

// DismissNotification обрабатывает POST /notifications/:id/dismiss.
func (h *Handler) DismissNotification(c *gin.Context) {
	h.notifications.Dismiss(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// DismissAllNotifications обрабатывает POST /notifications/dismiss-all.
func (h *Handler) DismissAllNotifications(c *gin.Context) {
	if err := h.notifications.DismissAll(); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RestoreNotifications обрабатывает POST /notifications/restore.
func (h *Handler) RestoreNotifications(c *gin.Context) {
	h.notifications.Restore()
	c.Status(http.StatusNoContent)
}

// --- admin ---

// OverdueScan обрабатывает POST /admin/overdue-scan.
func (h *Handler) OverdueScan(c *gin.Context) {
	if h.scanner == nil {
		h.fail(c, errors.New("delivery monitor is not configured"))
		return
	}
	promoted := h.scanner.Scan(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"promoted": promoted})
}

// Seed обрабатывает POST /admin/seed.
func (h *Handler) Seed(c *gin.Context) {
	result, err := h.store.SeedDemo()
	if err != nil {
		h.fail(c, err)
		return
	}
	h.logger.WithField("actor", identityFrom(c).ID).Info("demo data seeded via admin api")
	c.JSON(http.StatusCreated, gin.H{
		"products":  len(result.Products),
		"customers": len(result.Customers),
		"sales":     len(result.Sales),
	})
}

// --- admin: users ---

// ListUsers обрабатывает GET /admin/users.
func (h *Handler) ListUsers(c *gin.Context) {
	all, err := h.users.List()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lo.Map(all, func(u domain.User, _ int) UserResponse {
		return fromUser(u)
	}))
}

// GetUser обрабатывает GET /admin/users/:id.
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.users.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, fromUser(user))
}

// CreateUser обрабатывает POST /admin/users.
func (h *Handler) CreateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.users.Add(req.toInput())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.logger.WithFields(log.Fields{"actor": identityFrom(c).ID, "user_id": user.ID}).Info("user created via admin api")
	c.JSON(http.StatusCreated, fromUser(user))
}

// UpdateUser обрабатывает PATCH /admin/users/:id, меняя только переданные поля.
func (h *Handler) UpdateUser(c *gin.Context) {
	var req UserPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, applied, err := h.users.Update(c.Param("id"), req.toPatch())
	if err != nil {
		h.fail(c, err)
		return
	}
	if !applied {
		notFound(c, "user")
		return
	}
	c.JSON(http.StatusOK, fromUser(user))
}

// DeleteUser обрабатывает DELETE /admin/users/:id.
func (h *Handler) DeleteUser(c *gin.Context) {
	h.deleteByID(c, "user", h.users.Delete)
}

func (h *Handler) deleteByID(c *gin.Context, what string, remove func(id string) (bool, error)) {
	applied, err := remove(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if !applied {
		notFound(c, what)
		return
	}
	c.Status(http.StatusNoContent)
}

package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// NewRouter собирает gin engine со всеми маршрутами /api/v1.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(requestLogger(h.logger), gin.CustomRecovery(func(c *gin.Context, recovered any) {
		h.logger.WithField("panic", recovered).Error("recovered from panic")
		abortWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
	}))
	router.Use(identityMiddleware())

	v1 := router.Group("/api/v1")

	products := v1.Group("/products")
	products.GET("", h.ListProducts)
	products.POST("", h.CreateProduct)
	products.GET("/categories", h.ListCategories)
	products.PUT("/:id", h.UpdateProduct)
	products.DELETE("/:id", h.DeleteProduct)
	products.GET("/:id/stats", h.ProductStats)

	customers := v1.Group("/customers")
	customers.GET("", h.ListCustomers)
	customers.POST("", h.CreateCustomer)
	customers.PUT("/:id", h.UpdateCustomer)
	customers.DELETE("/:id", h.DeleteCustomer)
	customers.GET("/:id/stats", h.CustomerStats)

	salesGroup := v1.Group("/sales")
	salesGroup.GET("", h.ListSales)
	salesGroup.POST("", requireIdentity(), h.CreateSale)
	salesGroup.GET("/:id", h.GetSale)
	salesGroup.PUT("/:id", h.UpdateSale)
	salesGroup.PATCH("/:id/status", h.UpdateSaleStatus)
	salesGroup.DELETE("/:id", h.DeleteSale)
	salesGroup.GET("/:id/timeline", h.SaleTimeline)

	v1.GET("/dashboard/stats", h.DashboardStats)
	v1.GET("/dashboard/trend", h.Trend)
	v1.GET("/reports/analytics", h.Analytics)

	notifications := v1.Group("/notifications")
	notifications.GET("", h.ListNotifications)
	notifications.GET("/unread-count", h.UnreadCount)
	notifications.POST("/dismiss-all", h.DismissAllNotifications)
	notifications.POST("/restore", h.RestoreNotifications)
	notifications.POST("/:id/dismiss", h.DismissNotification)

	admin := v1.Group("/admin", requireAdmin())
	admin.POST("/overdue-scan", h.OverdueScan)
	admin.POST("/seed", h.Seed)

	if h.users != nil {
		users := admin.Group("/users")
		users.GET("", h.ListUsers)
		users.POST("", h.CreateUser)
		users.GET("/:id", h.GetUser)
		users.PATCH("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}

	return router
}

func requestLogger(logger *log.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(log.Fields{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
		})
		if c.Writer.Status() >= 500 {
			entry.Warn("http request")
			return
		}
		entry.Debug("http request")
	}
}

// Package grpcsvc отдаёт read-only представления панели продаж по gRPC.
//
// Сервис описан вручную через grpc.ServiceDesc: в качестве сообщений стандартные
// well-known типы (Empty, StringValue, Struct), поэтому генерация кода не нужна.
package grpcsvc

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/vladislavdragonenkov/salesdash/internal/domain"
)

const (
	ServiceName = "sales.v1.DashboardService"

	MethodGetDashboardStats = "/" + ServiceName + "/GetDashboardStats"
	MethodGetCustomerStats  = "/" + ServiceName + "/GetCustomerStats"
	MethodGetProductStats   = "/" + ServiceName + "/GetProductStats"
	MethodGetAnalytics      = "/" + ServiceName + "/GetAnalytics"
)

// StatsReader — чтения хранилища, которые отдаёт сервис.
type StatsReader interface {
	DashboardStats() domain.DashboardStats
	CustomerStats(customerID string) (domain.CustomerStats, error)
	ProductStats(productID string) (domain.ProductStats, error)
	Analytics() (domain.Analytics, error)
}

// DashboardServer — серверный интерфейс sales.v1.DashboardService.
type DashboardServer interface {
	GetDashboardStats(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetCustomerStats(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GetProductStats(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GetAnalytics(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// DashboardService реализует DashboardServer поверх хранилища продаж.
type DashboardService struct {
	reader StatsReader
	logger *log.Entry
}

// NewDashboardService конструирует сервис.
func NewDashboardService(reader StatsReader, logger *log.Entry) *DashboardService {
	if logger == nil {
		logger = log.WithField("component", "grpc-dashboard")
	}
	return &DashboardService{reader: reader, logger: logger}
}

// GetDashboardStats возвращает сводку продаж.
func (s *DashboardService) GetDashboardStats(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	stats := s.reader.DashboardStats()
	return s.toStruct(map[string]any{
		"total_sales":        stats.TotalSales,
		"total_revenue":      stats.TotalRevenue,
		"pending_deliveries": stats.PendingDeliveries,
		"overdue_deliveries": stats.OverdueDeliveries,
	})
}

// GetCustomerStats возвращает статистику клиента. Неизвестный клиент даёт нулевые агрегаты.
func (s *DashboardService) GetCustomerStats(_ context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "customer id is required")
	}

	stats, err := s.reader.CustomerStats(req.GetValue())
	if err != nil {
		return nil, s.internal(err)
	}

	recent := make([]any, 0, len(stats.RecentProducts))
	for _, name := range stats.RecentProducts {
		recent = append(recent, name)
	}
	return s.toStruct(map[string]any{
		"customer_id":     stats.CustomerID,
		"total_purchases": stats.TotalPurchases,
		"total_spent":     stats.TotalSpent,
		"last_purchase":   formatDate(stats.LastPurchase),
		"recent_products": recent,
	})
}

// GetProductStats возвращает статистику товара.
func (s *DashboardService) GetProductStats(_ context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "product id is required")
	}

	stats, err := s.reader.ProductStats(req.GetValue())
	if err != nil {
		return nil, s.internal(err)
	}
	return s.toStruct(map[string]any{
		"product_id":  stats.ProductID,
		"total_sales": stats.TotalSales,
		"units_sold":  stats.UnitsSold,
		"revenue":     stats.Revenue,
		"last_sale":   formatDate(stats.LastSale),
	})
}

// GetAnalytics возвращает показатели текущего месяца и топ товаров.
func (s *DashboardService) GetAnalytics(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	analytics, err := s.reader.Analytics()
	if err != nil {
		return nil, s.internal(err)
	}

	top := make([]any, 0, len(analytics.TopProducts))
	for _, p := range analytics.TopProducts {
		top = append(top, map[string]any{
			"product_name": p.ProductName,
			"quantity":     p.Quantity,
			"revenue":      p.Revenue,
		})
	}
	return s.toStruct(map[string]any{
		"monthly_sales":   analytics.MonthlySales,
		"monthly_revenue": analytics.MonthlyRevenue,
		"top_products":    top,
	})
}

func (s *DashboardService) toStruct(fields map[string]any) (*structpb.Struct, error) {
	result, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, s.internal(err)
	}
	return result, nil
}

func (s *DashboardService) internal(err error) error {
	s.logger.WithError(err).Error("dashboard request failed")
	return status.Error(codes.Internal, "internal error")
}

// formatDate отдаёт дату в формате YYYY-MM-DD, для нулевой даты пустая строка.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

var _ DashboardServer = (*DashboardService)(nil)

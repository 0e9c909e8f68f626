// Package stats содержит чистые функции, вычисляющие производные показатели из снимка продаж.
// Ничего не кэшируется: каждый вызов отражает переданный снимок целиком.
package stats

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/vladislavdragonenkov/salesdash/internal/domain"
)

const (
	recentProductsLimit = 3
	topProductsLimit    = 5
)

// Dashboard пересчитывает сводку с нуля.
func Dashboard(sales []domain.Sale) domain.DashboardStats {
	return domain.DashboardStats{
		TotalSales:   len(sales),
		TotalRevenue: revenue(sales),
		PendingDeliveries: lo.CountBy(sales, func(s domain.Sale) bool {
			return s.Status == domain.SaleStatusPending
		}),
		OverdueDeliveries: lo.CountBy(sales, func(s domain.Sale) bool {
			return s.Status == domain.SaleStatusOverdue
		}),
	}
}

// Customer собирает статистику клиента. sales ожидаются в порядке оформления.
func Customer(customerID string, sales []domain.Sale) domain.CustomerStats {
	matched := lo.Filter(sales, func(s domain.Sale, _ int) bool {
		return s.CustomerID == customerID
	})

	recent := matched
	if len(recent) > recentProductsLimit {
		recent = recent[len(recent)-recentProductsLimit:]
	}

	return domain.CustomerStats{
		CustomerID:     customerID,
		TotalPurchases: len(matched),
		TotalSpent:     revenue(matched),
		LastPurchase:   lastSaleDate(matched),
		RecentProducts: lo.Map(recent, func(s domain.Sale, _ int) string {
			return s.ProductName
		}),
	}
}

// Product собирает статистику товара.
func Product(productID string, sales []domain.Sale) domain.ProductStats {
	matched := lo.Filter(sales, func(s domain.Sale, _ int) bool {
		return s.ProductID == productID
	})

	return domain.ProductStats{
		ProductID:  productID,
		TotalSales: len(matched),
		UnitsSold: lo.SumBy(matched, func(s domain.Sale) int {
			return s.Quantity
		}),
		Revenue:  revenue(matched),
		LastSale: lastSaleDate(matched),
	}
}

// DailyTrend возвращает продажи за последние days календарных дней, включая сегодня, от старых к новым.
func DailyTrend(sales []domain.Sale, now time.Time, days int) []domain.TrendPoint {
	if days <= 0 {
		return nil
	}

	byDay := lo.GroupBy(sales, func(s domain.Sale) string {
		return s.SaleDate.Format(time.DateOnly)
	})

	today := domain.DateOf(now)
	points := make([]domain.TrendPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		daySales := byDay[day.Format(time.DateOnly)]
		points = append(points, domain.TrendPoint{
			Date:    day,
			Sales:   len(daySales),
			Revenue: revenue(daySales),
		})
	}
	return points
}

// Analytics собирает показатели текущего календарного месяца и топ товаров по выручке за всё время.
func Analytics(sales []domain.Sale, now time.Time) domain.Analytics {
	year, month, _ := now.Date()
	monthly := lo.Filter(sales, func(s domain.Sale, _ int) bool {
		y, m, _ := s.SaleDate.Date()
		return y == year && m == month
	})

	return domain.Analytics{
		MonthlySales:   len(monthly),
		MonthlyRevenue: revenue(monthly),
		TopProducts:    topProducts(sales, topProductsLimit),
	}
}

func topProducts(sales []domain.Sale, limit int) []domain.ProductPerformance {
	// Группируем по названию из снимка: удалённые товары продолжают участвовать в отчёте.
	index := make(map[string]int)
	var result []domain.ProductPerformance
	for _, sale := range sales {
		pos, ok := index[sale.ProductName]
		if !ok {
			pos = len(result)
			index[sale.ProductName] = pos
			result = append(result, domain.ProductPerformance{ProductName: sale.ProductName})
		}
		result[pos].Quantity += sale.Quantity
		result[pos].Revenue += sale.TotalAmount
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Revenue > result[j].Revenue
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

func revenue(sales []domain.Sale) float64 {
	return lo.SumBy(sales, func(s domain.Sale) float64 {
		return s.TotalAmount
	})
}

func lastSaleDate(sales []domain.Sale) time.Time {
	var last time.Time
	for _, sale := range sales {
		if sale.SaleDate.After(last) {
			last = sale.SaleDate
		}
	}
	return last
}

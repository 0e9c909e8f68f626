package domain

import "time"

// DashboardStats — сводка по текущему набору продаж. Только вычисляется, никогда не хранится отдельно.
type DashboardStats struct {
	TotalSales        int
	TotalRevenue      float64
	PendingDeliveries int
	OverdueDeliveries int
}

// CustomerStats — агрегаты продаж одного клиента.
type CustomerStats struct {
	CustomerID     string
	TotalPurchases int
	TotalSpent     float64
	// LastPurchase нулевой, если покупок не было.
	LastPurchase   time.Time
	RecentProducts []string
}

// HasPurchases сообщает, были ли у клиента покупки.
func (s CustomerStats) HasPurchases() bool {
	return s.TotalPurchases > 0
}

// ProductStats — агрегаты продаж одного товара.
type ProductStats struct {
	ProductID  string
	TotalSales int
	UnitsSold  int
	Revenue    float64
	LastSale   time.Time
}

// TrendPoint — продажи за один календарный день.
type TrendPoint struct {
	Date    time.Time
	Sales   int
	Revenue float64
}

// ProductPerformance — вклад товара (по названию из снимка) в выручку.
type ProductPerformance struct {
	ProductName string
	Quantity    int
	Revenue     float64
}

// Analytics — данные для раздела отчётов.
type Analytics struct {
	MonthlySales   int
	MonthlyRevenue float64
	TopProducts    []ProductPerformance
}

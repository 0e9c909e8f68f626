package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vladislavdragonenkov/salesdash/internal/domain"
)

// Значения label result для мутаций.
const (
	ResultApplied  = "applied"
	ResultNoop     = "noop"
	ResultRejected = "rejected"
)

// SalesMetrics содержит метрики хранилища продаж.
type SalesMetrics struct {
	// Мутации по сущности, операции и результату
	mutations *prometheus.CounterVec

	// Автоматические переводы pending -> overdue
	overdueTransitions prometheus.Counter

	// Размеры коллекций
	collectionSize *prometheus.GaugeVec

	// Сводка дашборда
	totalSales        prometheus.Gauge
	totalRevenue      prometheus.Gauge
	pendingDeliveries prometheus.Gauge
	overdueDeliveries prometheus.Gauge
}

// NewSalesMetrics создаёт метрики в prometheus.DefaultRegisterer.
func NewSalesMetrics() *SalesMetrics {
	return NewSalesMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewSalesMetricsWithRegisterer создаёт метрики в заданном registerer.
// Повторная регистрация возвращает уже существующие коллекторы.
func NewSalesMetricsWithRegisterer(registerer prometheus.Registerer) *SalesMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &SalesMetrics{
		mutations: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "salesdash_store_mutations_total",
			Help: "Total number of store mutations grouped by entity, operation and result",
		}, []string{"entity", "operation", "result"}),
		overdueTransitions: registerCounter(registerer, prometheus.CounterOpts{
			Name: "salesdash_overdue_transitions_total",
			Help: "Total number of sales automatically moved from pending to overdue",
		}),
		collectionSize: registerGaugeVec(registerer, prometheus.GaugeOpts{
			Name: "salesdash_collection_size",
			Help: "Current number of records per entity collection",
		}, []string{"entity"}),
		totalSales: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "salesdash_dashboard_total_sales",
			Help: "Number of sales in the current snapshot",
		}),
		totalRevenue: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "salesdash_dashboard_total_revenue",
			Help: "Sum of total amounts in the current snapshot",
		}),
		pendingDeliveries: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "salesdash_dashboard_pending_deliveries",
			Help: "Number of sales in pending status",
		}),
		overdueDeliveries: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "salesdash_dashboard_overdue_deliveries",
			Help: "Number of sales in overdue status",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerGaugeVec(registerer prometheus.Registerer, opts prometheus.GaugeOpts, labels []string) *prometheus.GaugeVec {
	collector := prometheus.NewGaugeVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.GaugeVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordMutation увеличивает счётчик мутаций.
func (m *SalesMetrics) RecordMutation(entity, operation, result string) {
	m.mutations.WithLabelValues(entity, operation, result).Inc()
}

// RecordOverdueTransitions учитывает продажи, переведённые монитором в overdue.
func (m *SalesMetrics) RecordOverdueTransitions(count int) {
	if count <= 0 {
		return
	}
	m.overdueTransitions.Add(float64(count))
}

// RecordCollectionSize выставляет текущий размер коллекции.
func (m *SalesMetrics) RecordCollectionSize(entity string, size int) {
	m.collectionSize.WithLabelValues(entity).Set(float64(size))
}

// RecordDashboard публикует свежую сводку дашборда.
func (m *SalesMetrics) RecordDashboard(stats domain.DashboardStats) {
	m.totalSales.Set(float64(stats.TotalSales))
	m.totalRevenue.Set(stats.TotalRevenue)
	m.pendingDeliveries.Set(float64(stats.PendingDeliveries))
	m.overdueDeliveries.Set(float64(stats.OverdueDeliveries))
}

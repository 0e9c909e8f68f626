package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/vladislavdragonenkov/salesdash/internal/domain"
)

func TestNewSalesMetricsWithRegisterer(t *testing.T) {
	metrics := NewSalesMetricsWithRegisterer(prometheus.NewRegistry())

	if metrics == nil {
		t.Fatal("NewSalesMetricsWithRegisterer should not return nil")
	}
	if metrics.mutations == nil {
		t.Error("mutations counter vec should not be nil")
	}
	if metrics.overdueTransitions == nil {
		t.Error("overdueTransitions counter should not be nil")
	}
	if metrics.collectionSize == nil {
		t.Error("collectionSize gauge vec should not be nil")
	}
	if metrics.totalRevenue == nil {
		t.Error("totalRevenue gauge should not be nil")
	}
}

func TestNewSalesMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := NewSalesMetricsWithRegisterer(reg)
	second := NewSalesMetricsWithRegisterer(reg)

	first.RecordOverdueTransitions(2)
	second.RecordOverdueTransitions(1)

	if got := counterValue(t, first.overdueTransitions); got != 3 {
		t.Fatalf("expected shared counter value 3, got %v", got)
	}
}

func TestRecordMutation(t *testing.T) {
	metrics := NewSalesMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordMutation("sale", "add", ResultApplied)
	metrics.RecordMutation("sale", "add", ResultApplied)
	metrics.RecordMutation("sale", "delete", ResultNoop)

	if got := counterValue(t, metrics.mutations.WithLabelValues("sale", "add", ResultApplied)); got != 2 {
		t.Fatalf("expected 2 applied adds, got %v", got)
	}
	if got := counterValue(t, metrics.mutations.WithLabelValues("sale", "delete", ResultNoop)); got != 1 {
		t.Fatalf("expected 1 noop delete, got %v", got)
	}
}

func TestRecordOverdueTransitions_IgnoresNonPositive(t *testing.T) {
	metrics := NewSalesMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordOverdueTransitions(0)
	metrics.RecordOverdueTransitions(-1)

	if got := counterValue(t, metrics.overdueTransitions); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestRecordDashboard(t *testing.T) {
	metrics := NewSalesMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordDashboard(domain.DashboardStats{
		TotalSales:        5,
		TotalRevenue:      6799.72,
		PendingDeliveries: 1,
		OverdueDeliveries: 1,
	})
	metrics.RecordCollectionSize("product", 6)

	if got := gaugeValue(t, metrics.totalSales); got != 5 {
		t.Fatalf("totalSales: got %v", got)
	}
	if got := gaugeValue(t, metrics.totalRevenue); got != 6799.72 {
		t.Fatalf("totalRevenue: got %v", got)
	}
	if got := gaugeValue(t, metrics.overdueDeliveries); got != 1 {
		t.Fatalf("overdueDeliveries: got %v", got)
	}
	if got := gaugeValue(t, metrics.collectionSize.WithLabelValues("product")); got != 6 {
		t.Fatalf("collection size: got %v", got)
	}
}

func counterValue(t *testing.T, counter prometheus.Counter) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := counter.Write(metric); err != nil {
		t.Fatalf("failed to write counter: %v", err)
	}
	return metric.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := gauge.Write(metric); err != nil {
		t.Fatalf("failed to write gauge: %v", err)
	}
	return metric.GetGauge().GetValue()
}

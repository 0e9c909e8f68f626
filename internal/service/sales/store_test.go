package sales

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/salesdash/internal/domain"
	"github.com/vladislavdragonenkov/salesdash/internal/storage/memory"
)

var seller = domain.Identity{ID: "u-1", Name: "Admin User", Role: domain.RoleAdmin}

type fixture struct {
	store    *Store
	outbox   *memory.OutboxRepository
	now      time.Time
	laptop   domain.Product
	customer domain.Customer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	now := time.Date(2024, time.December, 15, 10, 30, 0, 0, time.UTC)
	outbox := memory.NewOutboxRepository()
	store, err := NewStore(
		memory.NewProductRepository(),
		memory.NewCustomerRepository(),
		memory.NewSaleRepository(),
		WithClock(func() time.Time { return now }),
		WithTimeline(memory.NewTimelineRepository()),
		WithOutbox(outbox),
	)
	require.NoError(t, err)

	laptop, err := store.AddProduct(domain.ProductInput{Name: "Laptop Pro", Category: "Electronics", Price: 1299.99, Stock: 50})
	require.NoError(t, err)
	customer, err := store.AddCustomer(domain.CustomerInput{Name: "Acme Corp", Email: "contact@acme.com"})
	require.NoError(t, err)

	return &fixture{store: store, outbox: outbox, now: now, laptop: laptop, customer: customer}
}

func (f *fixture) addSale(t *testing.T, qty int, delivery time.Time) domain.Sale {
	t.Helper()
	sale, err := f.store.AddSale(domain.SaleInput{
		ProductID:    f.laptop.ID,
		CustomerID:   f.customer.ID,
		Quantity:     qty,
		SaleDate:     f.now,
		DeliveryDate: delivery,
	}, seller)
	require.NoError(t, err)
	return sale
}

func TestStore_AddSaleCapturesSnapshot(t *testing.T) {
	f := newFixture(t)

	sale := f.addSale(t, 2, f.now.AddDate(0, 0, 5))

	require.NotEmpty(t, sale.ID)
	require.Equal(t, 2599.98, sale.TotalAmount)
	require.Equal(t, 1299.99, sale.UnitPrice)
	require.Equal(t, "Laptop Pro", sale.ProductName)
	require.Equal(t, "Acme Corp", sale.CustomerName)
	require.Equal(t, domain.SaleStatusPending, sale.Status)
	require.Equal(t, seller.ID, sale.SalesPersonID)
	require.Equal(t, seller.Name, sale.SalesPersonName)
	require.Equal(t, domain.DateOf(f.now), sale.SaleDate)

	stats := f.store.DashboardStats()
	require.Equal(t, 1, stats.TotalSales)
	require.Equal(t, 1, stats.PendingDeliveries)
	require.Equal(t, 2599.98, stats.TotalRevenue)
}

func TestStore_AddSaleRejectsUnresolvedReferences(t *testing.T) {
	f := newFixture(t)

	_, err := f.store.AddSale(domain.SaleInput{
		ProductID:    "missing",
		CustomerID:   f.customer.ID,
		Quantity:     1,
		DeliveryDate: f.now,
	}, seller)
	require.ErrorIs(t, err, domain.ErrUnresolvedReference)
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = f.store.AddSale(domain.SaleInput{
		ProductID:    f.laptop.ID,
		CustomerID:   "missing",
		Quantity:     1,
		DeliveryDate: f.now,
	}, seller)
	require.ErrorIs(t, err, domain.ErrUnresolvedReference)
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)

	sales, err := f.store.Sales()
	require.NoError(t, err)
	require.Empty(t, sales)
}

func TestStore_AddSaleValidatesInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.store.AddSale(domain.SaleInput{
		ProductID:  f.laptop.ID,
		CustomerID: f.customer.ID,
		Quantity:   0,
	}, seller)
	require.ErrorIs(t, err, domain.ErrValidation)
	require.ErrorIs(t, err, domain.ErrQuantityInvalid)
	require.ErrorIs(t, err, domain.ErrDeliveryDateRequired)
}

func TestStore_UpdateSaleRecomputesTotal(t *testing.T) {
	f := newFixture(t)
	sale := f.addSale(t, 2, f.now.AddDate(0, 0, 5))

	edited := sale
	edited.Quantity = 5
	edited.TotalAmount = 1 // игнорируется
	edited.ProductName = "Hacked"

	updated, ok, err := f.store.UpdateSale(edited)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 6499.95, updated.TotalAmount)
	require.Equal(t, "Laptop Pro", updated.ProductName)

	stored, err := f.store.Sale(sale.ID)
	require.NoError(t, err)
	require.Equal(t, 6499.95, stored.TotalAmount)
	require.Equal(t, 6499.95, f.store.DashboardStats().TotalRevenue)
}

func TestStore_UpdateSaleRepricesOnQuantityOrProductChange(t *testing.T) {
	f := newFixture(t)
	sale := f.addSale(t, 1, f.now.AddDate(0, 0, 5))

	repriced := f.laptop
	repriced.Price = 999.99
	ok, err := f.store.UpdateProduct(repriced)
	require.NoError(t, err)
	require.True(t, ok)

	// Правка только даты доставки не трогает снимок цены.
	edited := sale
	edited.DeliveryDate = f.now.AddDate(0, 0, 7)
	updated, _, err := f.store.UpdateSale(edited)
	require.NoError(t, err)
	require.Equal(t, 1299.99, updated.UnitPrice)
	require.Equal(t, 1299.99, updated.TotalAmount)

	edited.Quantity = 2
	updated, _, err = f.store.UpdateSale(edited)
	require.NoError(t, err)
	require.Equal(t, 999.99, updated.UnitPrice)
	require.Equal(t, 1999.98, updated.TotalAmount)

	mouse, err := f.store.AddProduct(domain.ProductInput{Name: "Wireless Mouse", Price: 29.99, Stock: 200})
	require.NoError(t, err)
	edited.ProductID = mouse.ID
	updated, _, err = f.store.UpdateSale(edited)
	require.NoError(t, err)
	require.Equal(t, "Wireless Mouse", updated.ProductName)
	require.Equal(t, 29.99, updated.UnitPrice)
	require.Equal(t, domain.LineTotal(2, 29.99), updated.TotalAmount)
}

func TestStore_UpdateSaleQuantityWithDeletedProductRejected(t *testing.T) {
	f := newFixture(t)
	sale := f.addSale(t, 1, f.now.AddDate(0, 0, 5))

	ok, err := f.store.DeleteProduct(f.laptop.ID)
	require.NoError(t, err)
	require.True(t, ok)

	edited := sale
	edited.Quantity = 3
	_, ok, err = f.store.UpdateSale(edited)
	require.ErrorIs(t, err, domain.ErrUnresolvedReference)
	require.False(t, ok)

	stored, err := f.store.Sale(sale.ID)
	require.NoError(t, err)
	require.Equal(t, 1, stored.Quantity)
	require.Equal(t, 1299.99, stored.UnitPrice)
}

func TestStore_UpdateSaleUnknownProductRejected(t *testing.T) {
	f := newFixture(t)
	sale := f.addSale(t, 1, f.now.AddDate(0, 0, 5))

	edited := sale
	edited.ProductID = "missing"
	_, ok, err := f.store.UpdateSale(edited)
	require.ErrorIs(t, err, domain.ErrUnresolvedReference)
	require.False(t, ok)

	stored, err := f.store.Sale(sale.ID)
	require.NoError(t, err)
	require.Equal(t, f.laptop.ID, stored.ProductID)
}

func TestStore_MissingTargetsAreNoops(t *testing.T) {
	f := newFixture(t)
	f.addSale(t, 1, f.now.AddDate(0, 0, 5))
	before, err := f.store.Sales()
	require.NoError(t, err)

	_, ok, err := f.store.UpdateSale(domain.Sale{ID: "missing", Quantity: 1})
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = f.store.UpdateSaleStatus("missing", domain.SaleStatusDelivered)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = f.store.DeleteSale("missing")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = f.store.DeleteProduct("missing")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = f.store.UpdateCustomer(domain.Customer{ID: "missing", Name: "Ghost", Status: domain.CustomerStatusActive})
	require.NoError(t, err)
	require.False(t, ok)

	after, err := f.store.Sales()
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestStore_DeleteProductKeepsSaleSnapshot(t *testing.T) {
	f := newFixture(t)
	sale := f.addSale(t, 2, f.now.AddDate(0, 0, 5))

	ok, err := f.store.DeleteProduct(f.laptop.ID)
	require.NoError(t, err)
	require.True(t, ok)

	stored, err := f.store.Sale(sale.ID)
	require.NoError(t, err)
	require.Equal(t, "Laptop Pro", stored.ProductName)
	require.Equal(t, 2599.98, stored.TotalAmount)

	stats, err := f.store.ProductStats(f.laptop.ID)
	require.NoError(t, err)
	require.Equal(t, 1, stats.TotalSales)
	require.Equal(t, 2, stats.UnitsSold)
}

func TestStore_MarkOverdue(t *testing.T) {
	f := newFixture(t)
	yesterday := f.addSale(t, 1, f.now.AddDate(0, 0, -1))
	today := f.addSale(t, 1, f.now)
	tomorrow := f.addSale(t, 1, f.now.AddDate(0, 0, 1))
	delivered := f.addSale(t, 1, f.now.AddDate(0, 0, -3))
	_, _, err := f.store.UpdateSaleStatus(delivered.ID, domain.SaleStatusDelivered)
	require.NoError(t, err)

	promoted, err := f.store.MarkOverdue(f.now)
	require.NoError(t, err)
	require.Len(t, promoted, 1)
	require.Equal(t, yesterday.ID, promoted[0].ID)

	for id, want := range map[string]domain.SaleStatus{
		yesterday.ID: domain.SaleStatusOverdue,
		today.ID:     domain.SaleStatusPending,
		tomorrow.ID:  domain.SaleStatusPending,
		delivered.ID: domain.SaleStatusDelivered,
	} {
		sale, err := f.store.Sale(id)
		require.NoError(t, err)
		require.Equal(t, want, sale.Status, "sale %s", id)
	}

	stats := f.store.DashboardStats()
	require.Equal(t, 1, stats.OverdueDeliveries)
	require.Equal(t, 2, stats.PendingDeliveries)

	again, err := f.store.MarkOverdue(f.now)
	require.NoError(t, err)
	require.Empty(t, again)
}

func TestStore_ManualTransitionsArePermissive(t *testing.T) {
	f := newFixture(t)
	sale := f.addSale(t, 1, f.now.AddDate(0, 0, -1))

	_, err := f.store.MarkOverdue(f.now)
	require.NoError(t, err)

	updated, ok, err := f.store.UpdateSaleStatus(sale.ID, domain.SaleStatusPending)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, domain.SaleStatusPending, updated.Status)

	events, err := f.store.Timeline(sale.ID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	require.Equal(t, domain.TimelineSourceCreate, events[0].Source)
	require.Equal(t, domain.TimelineSourceMonitor, events[1].Source)
	require.Equal(t, domain.TimelineSourceManual, events[2].Source)
	require.Equal(t, domain.SaleStatusOverdue, events[2].From)

	_, _, err = f.store.UpdateSaleStatus(sale.ID, domain.SaleStatus("lost"))
	require.ErrorIs(t, err, domain.ErrSaleStatusInvalid)
}

func TestStore_EnqueuesSaleEvents(t *testing.T) {
	f := newFixture(t)
	sale := f.addSale(t, 2, f.now.AddDate(0, 0, -1))
	_, err := f.store.MarkOverdue(f.now)
	require.NoError(t, err)
	_, err = f.store.DeleteSale(sale.ID)
	require.NoError(t, err)

	pending, err := f.outbox.PullPending(10)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	require.Equal(t, domain.EventSaleCreated, pending[0].EventType)
	require.Equal(t, domain.EventSaleOverdue, pending[1].EventType)
	require.Equal(t, domain.EventSaleDeleted, pending[2].EventType)

	var payload SaleEventPayload
	require.NoError(t, json.Unmarshal(pending[1].Payload, &payload))
	require.Equal(t, sale.ID, payload.SaleID)
	require.Equal(t, "overdue", payload.Status)
	require.Equal(t, "pending", payload.PreviousStatus)
	require.Equal(t, "2024-12-14", payload.DeliveryDate)
}

func TestStore_RevenueMatchesSumOfTotals(t *testing.T) {
	f := newFixture(t)
	for qty := 1; qty <= 4; qty++ {
		f.addSale(t, qty, f.now.AddDate(0, 0, qty))
	}

	sales, err := f.store.Sales()
	require.NoError(t, err)
	var sum float64
	for _, sale := range sales {
		sum += sale.TotalAmount
	}
	require.Equal(t, sum, f.store.DashboardStats().TotalRevenue)
	require.Equal(t, len(sales), f.store.DashboardStats().TotalSales)
}

func TestStore_ConcurrentAddsProduceUniqueIDs(t *testing.T) {
	f := newFixture(t)

	const workers = 16
	const perWorker = 20

	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := f.store.AddSale(domain.SaleInput{
					ProductID:    f.laptop.ID,
					CustomerID:   f.customer.ID,
					Quantity:     1,
					DeliveryDate: f.now.AddDate(0, 0, -1),
				}, seller)
				if err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 10; i++ {
			if _, err := f.store.MarkOverdue(f.now); err != nil {
				errs <- err
			}
		}
	}()
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("unexpected error: %v", err)
	}

	sales, err := f.store.Sales()
	require.NoError(t, err)
	require.Len(t, sales, workers*perWorker)

	seen := make(map[string]struct{}, len(sales))
	for _, sale := range sales {
		_, dup := seen[sale.ID]
		require.False(t, dup, "duplicate id %s", sale.ID)
		seen[sale.ID] = struct{}{}
	}

	stats := f.store.DashboardStats()
	require.Equal(t, workers*perWorker, stats.TotalSales)
	require.Equal(t, workers*perWorker, stats.PendingDeliveries+stats.OverdueDeliveries)
}

func TestStore_DuplicateIDFromGenerator(t *testing.T) {
	store, err := NewStore(
		memory.NewProductRepository(),
		memory.NewCustomerRepository(),
		memory.NewSaleRepository(),
		WithIDGenerator(func() string { return "fixed" }),
	)
	require.NoError(t, err)

	_, err = store.AddProduct(domain.ProductInput{Name: "A", Price: 1})
	require.NoError(t, err)
	_, err = store.AddProduct(domain.ProductInput{Name: "B", Price: 1})
	require.True(t, errors.Is(err, domain.ErrDuplicateID), fmt.Sprint(err))
}

func TestStore_CustomerStats(t *testing.T) {
	f := newFixture(t)
	f.addSale(t, 2, f.now.AddDate(0, 0, 1))

	stats, err := f.store.CustomerStats(f.customer.ID)
	require.NoError(t, err)
	require.Equal(t, 1, stats.TotalPurchases)
	require.Equal(t, 2599.98, stats.TotalSpent)
	require.Equal(t, []string{"Laptop Pro"}, stats.RecentProducts)

	empty, err := f.store.CustomerStats("nobody")
	require.NoError(t, err)
	require.False(t, empty.HasPurchases())
	require.True(t, empty.LastPurchase.IsZero())
}

func TestStore_SeedDemo(t *testing.T) {
	now := time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC)
	store, err := NewStore(
		memory.NewProductRepository(),
		memory.NewCustomerRepository(),
		memory.NewSaleRepository(),
		WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)

	result, err := store.SeedDemo()
	require.NoError(t, err)
	require.Len(t, result.Products, 6)
	require.Len(t, result.Customers, 4)
	require.Len(t, result.Sales, 5)

	stats := store.DashboardStats()
	require.Equal(t, 5, stats.TotalSales)
	require.Equal(t, 1, stats.PendingDeliveries)
	require.Equal(t, 1, stats.OverdueDeliveries)
}

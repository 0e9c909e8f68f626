package notification

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/salesdash/internal/domain"
)

type staticSales struct {
	sales []domain.Sale
	err   error
}

func (s staticSales) Sales() ([]domain.Sale, error) {
	return s.sales, s.err
}

func day(offset int) time.Time {
	return time.Date(2024, time.December, 15+offset, 0, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	source := staticSales{sales: []domain.Sale{
		{ID: "1", ProductName: "Laptop Pro", CustomerName: "Acme Corp", Status: domain.SaleStatusPending, DeliveryDate: day(1)},
		{ID: "2", ProductName: "Office Chair", CustomerName: "Global", Status: domain.SaleStatusOverdue, DeliveryDate: day(-5)},
		{ID: "3", ProductName: "Mouse", CustomerName: "Tech", Status: domain.SaleStatusConfirmed, DeliveryDate: day(1)},
		{ID: "4", ProductName: "Desk", CustomerName: "Tech", Status: domain.SaleStatusPending, DeliveryDate: day(2)},
	}}
	now := func() time.Time { return time.Date(2024, time.December, 15, 18, 0, 0, 0, time.UTC) }
	return NewService(source, now, nil)
}

func TestService_List(t *testing.T) {
	svc := newTestService(t)

	list, err := svc.List()
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.Equal(t, "overdue-2", list[0].ID)
	require.Equal(t, domain.NotificationWarning, list[0].Type)
	require.Equal(t, "Delivery for Office Chair to Global is overdue", list[0].Message)

	require.Equal(t, "reminder-1", list[1].ID)
	require.Equal(t, domain.NotificationInfo, list[1].Type)
	require.Equal(t, "Laptop Pro delivery to Acme Corp is scheduled for tomorrow", list[1].Message)
}

func TestService_DismissAndRestore(t *testing.T) {
	svc := newTestService(t)

	svc.Dismiss("overdue-2")
	count, err := svc.UnreadCount()
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.NoError(t, svc.DismissAll())
	count, err = svc.UnreadCount()
	require.NoError(t, err)
	require.Zero(t, count)

	all, err := svc.All()
	require.NoError(t, err)
	require.Len(t, all, 2)

	svc.Restore()
	count, err = svc.UnreadCount()
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestService_SourceError(t *testing.T) {
	svc := NewService(staticSales{err: errors.New("boom")}, nil, nil)

	_, err := svc.List()
	require.Error(t, err)
	require.Error(t, svc.DismissAll())
}

package dashboard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/pharmadesk/internal/cache"
	"github.com/talkincode/pharmadesk/internal/domain"
	"github.com/talkincode/pharmadesk/internal/screen"
)

func day(y int, m time.Month, d int) domain.Time {
	return domain.Time{Time: time.Date(y, m, d, 10, 0, 0, 0, time.UTC)}
}

func sale(id, med string, qty int, total int64, when domain.Time) domain.Sale {
	return domain.Sale{ID: id, MedicineID: med, Quantity: qty, TotalPrice: decimal.NewFromInt(total), SaleDate: when}
}

var (
	testMedicines = []domain.Medicine{
		{ID: "m-1", Name: "Paracetamol", Quantity: 50},
		{ID: "m-2", Name: "Vitamin C", Quantity: 4},
		{ID: "m-3", Name: "Ibuprofen", Quantity: 12},
	}
	testSales = []domain.Sale{
		sale("s1", "m-1", 3, 30, day(2024, 5, 2)),
		sale("s2", "m-2", 2, 40, day(2024, 5, 20)),
		sale("s3", "m-1", 5, 50, day(2024, 6, 1)),
		sale("s4", "m-3", 1, 8, domain.Time{}),
	}
	testOrders = []domain.Order{
		{ID: 1, Status: domain.StatusInProgress},
		{ID: 2, Status: domain.StatusTransit},
		{ID: 3, Status: domain.StatusReceived},
	}
)

func TestCompute(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	snap := Compute(testSales, testMedicines, testOrders, now)

	assert.Equal(t, []MonthUnits{{Month: "2024-05", Units: 5}, {Month: "2024-06", Units: 5}}, snap.SalesTrend)
	require.Len(t, snap.RevenueByMonth, 2)
	assert.True(t, snap.RevenueByMonth[0].Revenue.Equal(decimal.NewFromInt(70)))
	assert.True(t, snap.RevenueByMonth[1].Revenue.Equal(decimal.NewFromInt(50)))

	require.Len(t, snap.TopSelling, 3)
	assert.Equal(t, MedicineUnits{MedicineID: "m-1", Name: "Paracetamol", Units: 8}, snap.TopSelling[0])
	assert.Equal(t, "Vitamin C", snap.TopSelling[1].Name)

	assert.Equal(t, "Vitamin C", snap.StockLevels[0].Name, "lowest stock first")

	assert.Equal(t, []StatusCount{
		{Status: domain.StatusInProgress, Label: "In Progress", Count: 1},
		{Status: domain.StatusTransit, Label: "Transit", Count: 1},
		{Status: domain.StatusCompleted, Label: "Completed", Count: 0},
		{Status: domain.StatusReceived, Label: "Received", Count: 1},
	}, snap.OrdersByStatus)

	sum := snap.Summary
	assert.Equal(t, 4, sum.Sales)
	assert.Equal(t, 11, sum.UnitsSold)
	assert.True(t, sum.Revenue.Equal(decimal.NewFromInt(128)))
	assert.Equal(t, 32.0, sum.MeanSale)
	assert.Equal(t, 35.0, sum.MedianSale)
	assert.Equal(t, 1, sum.LowStock)
	assert.Equal(t, 2, sum.OpenOrders)
	assert.Equal(t, now, sum.GeneratedAt)
}

func TestComputeEmpty(t *testing.T) {
	snap := Compute(nil, nil, nil, time.Now())
	assert.NotNil(t, snap.SalesTrend)
	assert.NotNil(t, snap.TopSelling)
	assert.Zero(t, snap.Summary.MeanSale)
	assert.True(t, snap.Summary.Revenue.IsZero())
	assert.Len(t, snap.OrdersByStatus, 4)
}

type fakeSource struct {
	calls int32
	fail  bool
}

func (f *fakeSource) ListSales(ctx context.Context) ([]domain.Sale, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.fail {
		return nil, errors.New("gateway down")
	}
	return testSales, nil
}

func (f *fakeSource) Medicines(ctx context.Context) ([]domain.Medicine, error) {
	return testMedicines, nil
}

func (f *fakeSource) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return testOrders, nil
}

func TestBoardCachesUntilWrite(t *testing.T) {
	src := &fakeSource{}
	bus := EventBus.New()
	b := NewBoard(src, bus)
	t.Cleanup(b.Close)
	ctx := context.Background()

	_, err := b.Snapshot(ctx)
	require.NoError(t, err)
	_, err = b.Snapshot(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&src.calls))

	bus.Publish(cache.TopicSales)
	_, err = b.Snapshot(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&src.calls))

	bus.Publish(cache.TopicOrders)
	_, err = b.Snapshot(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt32(&src.calls))
}

func TestScreenRefreshFailureToast(t *testing.T) {
	src := &fakeSource{fail: true}
	n := &screen.Notices{}
	s := NewScreen(NewBoard(src, nil), screen.NewScope(context.Background()), n)

	require.Error(t, s.Refresh())
	assert.Equal(t, []screen.Notice{{Level: screen.LevelError, Message: "Failed to load dashboard"}}, n.Drain())

	src.fail = false
	require.NoError(t, s.Refresh())
	assert.Equal(t, 4, s.View().Summary.Sales)
}

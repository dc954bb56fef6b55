package dashboard

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/purchase-tracker/internal/entity"
	"github.com/joseph-ayodele/purchase-tracker/internal/metrics"
	"github.com/joseph-ayodele/purchase-tracker/internal/repository"
)

type fakeStore struct {
	orders  []*entity.Order
	filters []repository.OrderFilter
	err     error
}

func (f *fakeStore) List(_ context.Context, flt repository.OrderFilter) ([]*entity.Order, error) {
	f.filters = append(f.filters, flt)
	if f.err != nil {
		return nil, f.err
	}
	out := f.orders
	if flt.Offset > 0 {
		out = out[min(flt.Offset, len(out)):]
	}
	if flt.Limit > 0 {
		out = out[:min(flt.Limit, len(out))]
	}
	return out, nil
}

func (f *fakeStore) Count(context.Context, repository.OrderFilter) (int, error) {
	return len(f.orders), f.err
}

func testBuilder() *Builder {
	b := NewBuilder(10, time.UTC, metrics.New())
	b.Now = func() time.Time { return today }
	return b
}

func makeOrders(n int) []*entity.Order {
	out := make([]*entity.Order, n)
	for i := range out {
		out[i] = &entity.Order{
			RequestNumber:   fmt.Sprintf("%d", i+1),
			Supplier:        "ACME",
			Status:          "Confirmado",
			PlannedDelivery: day("2024-03-20"),
		}
	}
	return out
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
}

func TestBuilder_Build(t *testing.T) {
	records := Records(makeOrders(12))
	records[0].Planned = day("2024-03-13")

	v := testBuilder().Build(records, 2)
	assert.Equal(t, 2, v.Page)
	assert.Equal(t, 2, v.TotalPages)
	assert.Equal(t, 12, v.Total)
	require.Len(t, v.Rows, 2)
	assert.Equal(t, "11", v.Rows[0].Order.RequestNumber)
	assert.Equal(t, KPIs{Total: 12, Open: 12, Late: 1}, v.KPIs)
	assert.Equal(t, []string{"ACME"}, v.SupplierChart.Labels)
	assert.Len(t, v.Statuses, 6)

	first := testBuilder().Build(records, 0)
	assert.Equal(t, 1, first.Page)
	require.Len(t, first.Rows, 10)
	assert.Equal(t, LatenessLate, first.Rows[0].Classification.Lateness)

	beyond := testBuilder().Build(records, 5)
	assert.Empty(t, beyond.Rows)
}

func TestService_View(t *testing.T) {
	store := &fakeStore{orders: makeOrders(12)}
	svc := NewService(store, testBuilder(), nil)

	v, err := svc.View(context.Background(), repository.OrderFilter{Status: "Confirmado", Limit: 99}, 2)
	require.NoError(t, err)
	assert.Equal(t, 12, v.Total)
	assert.Equal(t, 2, v.TotalPages)
	require.Len(t, v.Rows, 2)
	assert.Equal(t, 12, v.KPIs.Open)
	assert.Equal(t, []string{"18/03"}, v.Timeline.Labels)

	require.Len(t, store.filters, 2)
	assert.Equal(t, 0, store.filters[0].Limit, "aggregates read every row")
	assert.Equal(t, "Confirmado", store.filters[0].Status)
	assert.Equal(t, 10, store.filters[1].Limit)
	assert.Equal(t, 10, store.filters[1].Offset)
}

func TestService_ViewError(t *testing.T) {
	svc := NewService(&fakeStore{err: errors.New("db down")}, testBuilder(), nil)
	_, err := svc.View(context.Background(), repository.OrderFilter{}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

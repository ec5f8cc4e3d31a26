package commands_test

import (
	"context"
	"io"
	"testing"
	"time"

	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/domain/model/batch"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/route"
	"lastmile/internal/core/domain/model/zone"
	"lastmile/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetByBatchID(ctx context.Context, batchID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, batchID)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepository) GetByRouteID(ctx context.Context, routeID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, routeID)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

type MockBatchRepository struct{ mock.Mock }

func (m *MockBatchRepository) Add(ctx context.Context, b *batch.Batch) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBatchRepository) Update(ctx context.Context, b *batch.Batch) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBatchRepository) Get(ctx context.Context, id kernel.UUID) (*batch.Batch, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*batch.Batch)
	return b, args.Error(1)
}

func (m *MockBatchRepository) GetOpen(ctx context.Context) (*batch.Batch, error) {
	args := m.Called(ctx)
	b, _ := args.Get(0).(*batch.Batch)
	return b, args.Error(1)
}

type MockRouteRepository struct{ mock.Mock }

func (m *MockRouteRepository) Add(ctx context.Context, r *route.Route) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRouteRepository) Update(ctx context.Context, r *route.Route) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRouteRepository) Get(ctx context.Context, id kernel.UUID) (*route.Route, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*route.Route)
	return r, args.Error(1)
}

func (m *MockRouteRepository) GetByBatchID(ctx context.Context, batchID kernel.UUID) ([]*route.Route, error) {
	args := m.Called(ctx, batchID)
	routes, _ := args.Get(0).([]*route.Route)
	return routes, args.Error(1)
}

type MockDeliveryZoneRepository struct{ mock.Mock }

func (m *MockDeliveryZoneRepository) Add(ctx context.Context, z *zone.DeliveryZone) error {
	return m.Called(ctx, z).Error(0)
}

func (m *MockDeliveryZoneRepository) Update(ctx context.Context, z *zone.DeliveryZone) error {
	return m.Called(ctx, z).Error(0)
}

func (m *MockDeliveryZoneRepository) Remove(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDeliveryZoneRepository) Get(ctx context.Context, id kernel.UUID) (*zone.DeliveryZone, error) {
	args := m.Called(ctx, id)
	z, _ := args.Get(0).(*zone.DeliveryZone)
	return z, args.Error(1)
}

func (m *MockDeliveryZoneRepository) GetByCode(ctx context.Context, code string) (*zone.DeliveryZone, error) {
	args := m.Called(ctx, code)
	z, _ := args.Get(0).(*zone.DeliveryZone)
	return z, args.Error(1)
}

func (m *MockDeliveryZoneRepository) GetAll(ctx context.Context) ([]*zone.DeliveryZone, error) {
	args := m.Called(ctx)
	zones, _ := args.Get(0).([]*zone.DeliveryZone)
	return zones, args.Error(1)
}

// MockUoW satisfies every narrowed unit of work in the commands package.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) BatchRepository() ports.BatchRepository {
	return m.Called().Get(0).(ports.BatchRepository)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}

func (m *MockUoW) RouteRepository() ports.RouteRepository {
	return m.Called().Get(0).(ports.RouteRepository)
}

func (m *MockUoW) DeliveryZoneRepository() ports.DeliveryZoneRepository {
	return m.Called().Get(0).(ports.DeliveryZoneRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	return m.Called().Get(0).(commands.OrderUoW)
}

type MockOrderingUoWFactory struct{ mock.Mock }

func (m *MockOrderingUoWFactory) Create() commands.OrderingUoW {
	return m.Called().Get(0).(commands.OrderingUoW)
}

type MockBatchUoWFactory struct{ mock.Mock }

func (m *MockBatchUoWFactory) Create() commands.BatchUoW {
	return m.Called().Get(0).(commands.BatchUoW)
}

type MockRouteUoWFactory struct{ mock.Mock }

func (m *MockRouteUoWFactory) Create() commands.RouteUoW {
	return m.Called().Get(0).(commands.RouteUoW)
}

type MockDeliveryZoneUoWFactory struct{ mock.Mock }

func (m *MockDeliveryZoneUoWFactory) Create() commands.DeliveryZoneUoW {
	return m.Called().Get(0).(commands.DeliveryZoneUoW)
}

type MockProofStorage struct{ mock.Mock }

func (m *MockProofStorage) Upload(ctx context.Context, body io.Reader, filename, contentType string) (order.Proof, error) {
	args := m.Called(ctx, body, filename, contentType)
	return args.Get(0).(order.Proof), args.Error(1)
}

func tomorrow() time.Time {
	return time.Now().UTC().Add(24 * time.Hour)
}

func somePoint(t *testing.T) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(-23.55, -46.63)
	require.NoError(t, err)
	return p
}

func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), "Rua Augusta 500", somePoint(t), tomorrow())
	require.NoError(t, err)
	require.NoError(t, o.AddItem(kernel.NewUUID(), 1))
	return o
}

func newInTransitOrder(t *testing.T) *order.Order {
	t.Helper()
	o := newPendingOrder(t)
	require.NoError(t, o.AssignToRoute(kernel.NewUUID(), 1))
	require.NoError(t, o.MarkAsInTransit())
	return o
}

func newPendingRoute(t *testing.T, driverID *kernel.UUID) *route.Route {
	t.Helper()
	r, err := route.NewRoute(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), driverID, somePoint(t))
	require.NoError(t, err)
	return r
}

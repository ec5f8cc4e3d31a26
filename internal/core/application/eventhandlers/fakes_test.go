package eventhandlers_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"lastmile/internal/core/domain/model/batch"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/route"
	"lastmile/internal/core/domain/model/zone"
	"lastmile/internal/core/ports"
	"lastmile/internal/pkg/errs"

	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// memStore is an in-memory stand-in for the postgres adapters. Aggregates are
// stored by pointer; updates are version checked like the real repositories.
type memStore struct {
	orders     map[kernel.UUID]*order.Order
	orderSeq   []kernel.UUID
	routes     map[kernel.UUID]*route.Route
	routeSeq   []kernel.UUID
	zones      []*zone.DeliveryZone
	commits    int
	rollbacks  int
	conflictOn map[kernel.UUID]int
}

func newMemStore() *memStore {
	return &memStore{
		orders:     make(map[kernel.UUID]*order.Order),
		routes:     make(map[kernel.UUID]*route.Route),
		conflictOn: make(map[kernel.UUID]int),
	}
}

func (s *memStore) Create() ports.UnitOfWork {
	return &memUoW{store: s}
}

func (s *memStore) addOrder(o *order.Order) {
	s.orders[o.ID()] = o
	s.orderSeq = append(s.orderSeq, o.ID())
}

func (s *memStore) addRoute(r *route.Route) {
	s.routes[r.ID()] = r
	s.routeSeq = append(s.routeSeq, r.ID())
}

func (s *memStore) allRoutes() []*route.Route {
	out := make([]*route.Route, 0, len(s.routeSeq))
	for _, id := range s.routeSeq {
		out = append(out, s.routes[id])
	}
	return out
}

type memUoW struct {
	store  *memStore
	active bool
}

func (u *memUoW) Begin(context.Context) error {
	u.active = true
	return nil
}

func (u *memUoW) Commit(context.Context) error {
	u.active = false
	u.store.commits++
	return nil
}

func (u *memUoW) Rollback(context.Context) error {
	if !u.active {
		return nil
	}
	u.active = false
	u.store.rollbacks++
	return nil
}

func (u *memUoW) BatchRepository() ports.BatchRepository { return nil }

func (u *memUoW) OrderRepository() ports.OrderRepository { return memOrders{u.store} }

func (u *memUoW) RouteRepository() ports.RouteRepository { return memRoutes{u.store} }

func (u *memUoW) DeliveryZoneRepository() ports.DeliveryZoneRepository { return memZones{u.store} }

type memOrders struct{ s *memStore }

func (r memOrders) Add(_ context.Context, o *order.Order) error {
	r.s.addOrder(o)
	return nil
}

func (r memOrders) Update(_ context.Context, o *order.Order) error {
	o.SetVersion(o.Version() + 1)
	return nil
}

func (r memOrders) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return o, nil
}

func (r memOrders) GetByBatchID(_ context.Context, batchID kernel.UUID) ([]*order.Order, error) {
	var out []*order.Order
	for _, id := range r.s.orderSeq {
		if o := r.s.orders[id]; o.BatchID().IsEqual(batchID) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r memOrders) GetByRouteID(_ context.Context, routeID kernel.UUID) ([]*order.Order, error) {
	var out []*order.Order
	for _, id := range r.s.orderSeq {
		if o := r.s.orders[id]; o.RouteID() != nil && o.RouteID().IsEqual(routeID) {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return *out[i].DeliverySequence() < *out[j].DeliverySequence() })
	return out, nil
}

type memRoutes struct{ s *memStore }

func (r memRoutes) Add(_ context.Context, rt *route.Route) error {
	r.s.addRoute(rt)
	return nil
}

// Update simulates a concurrent writer while conflictOn[id] > 0.
func (r memRoutes) Update(_ context.Context, rt *route.Route) error {
	if n := r.s.conflictOn[rt.ID()]; n > 0 {
		r.s.conflictOn[rt.ID()] = n - 1
		return errs.NewVersionIsInvalidError("route", nil)
	}
	stored, ok := r.s.routes[rt.ID()]
	if !ok || stored.Version() != rt.Version() {
		return errs.NewVersionIsInvalidError("route", nil)
	}
	rt.SetVersion(rt.Version() + 1)
	r.s.routes[rt.ID()] = rt
	return nil
}

// Get returns a detached copy, like a fresh read from the database.
func (r memRoutes) Get(_ context.Context, id kernel.UUID) (*route.Route, error) {
	rt, ok := r.s.routes[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("route", id.String())
	}
	return route.RestoreRoute(route.State{
		ID:             rt.ID(),
		BatchID:        rt.BatchID(),
		DeliveryZoneID: rt.DeliveryZoneID(),
		DriverID:       rt.DriverID(),
		OriginLocation: rt.OriginLocation(),
		Status:         rt.Status(),
		CreatedAt:      rt.CreatedAt(),
		StartedAt:      rt.StartedAt(),
		CompletedAt:    rt.CompletedAt(),
		Version:        rt.Version(),
	})
}

func (r memRoutes) GetByBatchID(_ context.Context, batchID kernel.UUID) ([]*route.Route, error) {
	var out []*route.Route
	for _, rt := range r.s.allRoutes() {
		if rt.BatchID().IsEqual(batchID) {
			out = append(out, rt)
		}
	}
	return out, nil
}

type memZones struct{ s *memStore }

func (r memZones) Add(_ context.Context, z *zone.DeliveryZone) error {
	r.s.zones = append(r.s.zones, z)
	return nil
}

func (r memZones) Update(context.Context, *zone.DeliveryZone) error { return nil }

func (r memZones) Remove(context.Context, kernel.UUID) error { return nil }

func (r memZones) Get(_ context.Context, id kernel.UUID) (*zone.DeliveryZone, error) {
	for _, z := range r.s.zones {
		if z.ID().IsEqual(id) {
			return z, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("zone", id.String())
}

func (r memZones) GetByCode(_ context.Context, code string) (*zone.DeliveryZone, error) {
	for _, z := range r.s.zones {
		if z.Code() == code {
			return z, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("zone", code)
}

func (r memZones) GetAll(context.Context) ([]*zone.DeliveryZone, error) {
	return r.s.zones, nil
}

// optimizerFunc adapts a function to ports.RouteOptimizer.
type optimizerFunc func(ctx context.Context, origin kernel.GeoPoint, waypoints []ports.Waypoint) ([]ports.SequencedWaypoint, error)

func (f optimizerFunc) Optimize(
	ctx context.Context, origin kernel.GeoPoint, waypoints []ports.Waypoint,
) ([]ports.SequencedWaypoint, error) {
	return f(ctx, origin, waypoints)
}

// identityOptimizer returns waypoints in submission order and rejects
// requests with fewer than minWaypoints.
func identityOptimizer(minWaypoints int) optimizerFunc {
	return func(_ context.Context, _ kernel.GeoPoint, waypoints []ports.Waypoint) ([]ports.SequencedWaypoint, error) {
		if len(waypoints) < minWaypoints {
			return nil, errs.NewValidationError("RouteOptimizer.NotEnoughWaypoints", "at least 2 waypoints are required")
		}
		out := make([]ports.SequencedWaypoint, len(waypoints))
		for i, w := range waypoints {
			out[i] = ports.SequencedWaypoint{ID: w.ID, Sequence: i + 1}
		}
		return out, nil
	}
}

func squareZone(t *testing.T, code string, minLat, minLon float64, driverID *kernel.UUID) *zone.DeliveryZone {
	t.Helper()
	b, err := kernel.NewBoundary([]kernel.GeoPoint{
		kernel.MustNewGeoPoint(minLat, minLon),
		kernel.MustNewGeoPoint(minLat, minLon+1),
		kernel.MustNewGeoPoint(minLat+1, minLon+1),
		kernel.MustNewGeoPoint(minLat+1, minLon),
	})
	require.NoError(t, err)
	z, err := zone.NewDeliveryZone(kernel.NewUUID(), code, code, b, driverID)
	require.NoError(t, err)
	return z
}

func pendingOrder(t *testing.T, batchID kernel.UUID, lat, lon float64) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), batchID, kernel.NewUUID(), "addr",
		kernel.MustNewGeoPoint(lat, lon), time.Now())
	require.NoError(t, err)
	require.NoError(t, o.AddItem(kernel.NewUUID(), 1))
	return o
}

func closedBatchEvent(t *testing.T, batchID kernel.UUID) kernel.DomainEvent {
	t.Helper()
	b, err := batch.NewBatch(batchID, 0)
	require.NoError(t, err)
	require.NoError(t, b.Close())
	return b.DomainEvents()[0]
}

package eventhandlers_test

import (
	"testing"

	"lastmile/internal/core/application/eventhandlers"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/route"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteStartedHandler(t *testing.T) {
	store := newMemStore()
	r, orders := routeWithOrders(t, store, 3, false)
	require.NoError(t, orders[2].Cancel())
	require.NoError(t, r.Start())

	h := newRouteStartedHandler(store)
	require.NoError(t, h.Handle(t.Context(), r.DomainEvents()[0]))

	assert.Equal(t, order.InTransit, orders[0].Status())
	assert.Equal(t, order.InTransit, orders[1].Status())
	assert.Equal(t, order.Cancelled, orders[2].Status())
	assert.Equal(t, 1, store.commits)
	assert.Equal(t, route.InProgress, store.routes[r.ID()].Status())
}

func TestRouteStartedHandler_CompletesRouteWithOnlyTerminalOrders(t *testing.T) {
	store := newMemStore()
	r, orders := routeWithOrders(t, store, 2, false)
	for _, o := range orders {
		require.NoError(t, o.Cancel())
	}
	require.NoError(t, r.Start())

	require.NoError(t, newRouteStartedHandler(store).Handle(t.Context(), r.DomainEvents()[0]))

	stored := store.routes[r.ID()]
	assert.Equal(t, route.Completed, stored.Status())
	assert.NotNil(t, stored.CompletedAt())
	assert.Equal(t, 2, store.commits, "cascade and completion commit separately")
}

func newRouteStartedHandler(store *memStore) *eventhandlers.RouteStartedHandler {
	completion := eventhandlers.NewRouteCompletionHandler(store, discardLogger, nil)
	return eventhandlers.NewRouteStartedHandler(store, completion, discardLogger)
}

func TestRouteCancelledHandler(t *testing.T) {
	store := newMemStore()
	r, orders := routeWithOrders(t, store, 3, true)
	deliver(t, orders[0])
	require.NoError(t, r.Cancel())

	h := eventhandlers.NewRouteCancelledHandler(store, discardLogger)
	require.NoError(t, h.Handle(t.Context(), r.DomainEvents()[0]))

	assert.Equal(t, order.Delivered, orders[0].Status())
	assert.Equal(t, order.Cancelled, orders[1].Status())
	assert.Equal(t, order.Cancelled, orders[2].Status())
	require.Len(t, orders[1].DomainEvents(), 1)
	assert.Equal(t, order.OrderCancelledEventType, orders[1].DomainEvents()[0].EventType())
}

func TestRouteCascadeHandlers_RejectOtherEvents(t *testing.T) {
	ev := kernel.NewBaseEvent("batch.closed", kernel.NewUUID())

	require.Error(t, newRouteStartedHandler(newMemStore()).Handle(t.Context(), ev))
	require.Error(t, eventhandlers.NewRouteCancelledHandler(newMemStore(), discardLogger).Handle(t.Context(), ev))
}

package eventhandlers

import (
	"context"
	"fmt"
	"log/slog"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/route"
	"lastmile/internal/core/ports"
)

// RouteStartedHandler puts every pending order of a started route in transit.
// Orders cancelled before the route started are left alone. A route whose
// orders were all terminal before it started is completed right away, since no
// later order event would complete it.
type RouteStartedHandler struct {
	uowFactory ports.UnitOfWorkFactory
	completion *RouteCompletionHandler
	logger     *slog.Logger
}

func NewRouteStartedHandler(
	uowFactory ports.UnitOfWorkFactory,
	completion *RouteCompletionHandler,
	logger *slog.Logger,
) *RouteStartedHandler {
	return &RouteStartedHandler{
		uowFactory: uowFactory,
		completion: completion,
		logger:     logger.With("component", "route-started-cascade"),
	}
}

func (h *RouteStartedHandler) Handle(ctx context.Context, event kernel.DomainEvent) error {
	started, ok := event.(route.RouteStartedEvent)
	if !ok {
		return fmt.Errorf("route started cascade: unexpected event %T", event)
	}

	err := retryOnConflict(ctx, h.logger, "mark orders in transit", func() error {
		return cascadeToOrders(ctx, h.uowFactory, h.logger, started.RouteID(),
			isPending, (*order.Order).MarkAsInTransit)
	})
	if err != nil {
		return err
	}

	_, err = h.completion.TryCompleteRoute(ctx, started.RouteID())
	return err
}

// RouteCancelledHandler cancels every non-terminal order of a cancelled route.
type RouteCancelledHandler struct {
	uowFactory ports.UnitOfWorkFactory
	logger     *slog.Logger
}

func NewRouteCancelledHandler(uowFactory ports.UnitOfWorkFactory, logger *slog.Logger) *RouteCancelledHandler {
	return &RouteCancelledHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "route-cancelled-cascade"),
	}
}

func (h *RouteCancelledHandler) Handle(ctx context.Context, event kernel.DomainEvent) error {
	cancelled, ok := event.(route.RouteCancelledEvent)
	if !ok {
		return fmt.Errorf("route cancelled cascade: unexpected event %T", event)
	}

	return retryOnConflict(ctx, h.logger, "cancel orders", func() error {
		return cascadeToOrders(ctx, h.uowFactory, h.logger, cancelled.RouteID(),
			isNotTerminal, (*order.Order).Cancel)
	})
}

func isPending(o *order.Order) bool {
	return o.Status() == order.Pending
}

func isNotTerminal(o *order.Order) bool {
	return !o.IsTerminal()
}

// cascadeToOrders applies transition to the orders of a route matching applies.
// Orders that do not match, terminal ones in particular, are skipped silently.
func cascadeToOrders(
	ctx context.Context,
	uowFactory ports.UnitOfWorkFactory,
	logger *slog.Logger,
	routeID kernel.UUID,
	applies func(*order.Order) bool,
	transition func(*order.Order) error,
) error {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	orders, err := orderRepo.GetByRouteID(ctx, routeID)
	if err != nil {
		return err
	}

	changed := 0
	for _, o := range orders {
		if !applies(o) {
			logger.DebugContext(ctx, "Skipping order",
				"route_id", routeID.String(), "order_id", o.ID().String(), "status", o.Status().String())
			continue
		}
		if err = transition(o); err != nil {
			return fmt.Errorf("order %s: %w", o.ID(), err)
		}
		if err = orderRepo.Update(ctx, o); err != nil {
			return err
		}
		changed++
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	logger.InfoContext(ctx, "Route status cascaded to orders", "route_id", routeID.String(), "orders", changed)
	return nil
}

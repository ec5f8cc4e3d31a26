package eventhandlers

import (
	"context"
	"fmt"
	"log/slog"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/route"
	"lastmile/internal/core/ports"
	"lastmile/internal/pkg/metrics"
)

// RouteCompletionHandler reacts to an order reaching a terminal state by
// completing its route once every order on it is terminal.
type RouteCompletionHandler struct {
	uowFactory ports.UnitOfWorkFactory
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

func NewRouteCompletionHandler(uowFactory ports.UnitOfWorkFactory, logger *slog.Logger, m *metrics.Metrics) *RouteCompletionHandler {
	return &RouteCompletionHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "route-completion"),
		metrics:    m,
	}
}

func (h *RouteCompletionHandler) Handle(ctx context.Context, event kernel.DomainEvent) error {
	terminal, ok := event.(order.TerminalEvent)
	if !ok {
		return fmt.Errorf("route completion: unexpected event %T", event)
	}

	routeID := terminal.RouteID()
	if routeID == nil {
		return nil
	}

	_, err := h.TryCompleteRoute(ctx, *routeID)
	return err
}

// TryCompleteRoute completes the route if it is in progress and all its orders
// are terminal. It returns true only when this call completed the route.
// Concurrent completions are detected by the route version and retried.
func (h *RouteCompletionHandler) TryCompleteRoute(ctx context.Context, routeID kernel.UUID) (bool, error) {
	var completed bool
	err := retryOnConflict(ctx, h.logger, "complete route", func() error {
		var err error
		completed, err = h.tryCompleteRoute(ctx, routeID)
		return err
	})
	if err != nil {
		return false, err
	}

	if completed {
		h.logger.InfoContext(ctx, "Route completed", "route_id", routeID.String())
		h.metrics.RecordRouteCompleted()
	}
	return completed, nil
}

func (h *RouteCompletionHandler) tryCompleteRoute(ctx context.Context, routeID kernel.UUID) (bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	routeRepo := uow.RouteRepository()
	r, err := routeRepo.Get(ctx, routeID)
	if err != nil {
		return false, err
	}
	if r.Status() != route.InProgress {
		return false, nil
	}

	orders, err := uow.OrderRepository().GetByRouteID(ctx, routeID)
	if err != nil {
		return false, err
	}
	for _, o := range orders {
		if !o.IsTerminal() {
			return false, nil
		}
	}

	if err = r.Complete(); err != nil {
		return false, err
	}
	if err = routeRepo.Update(ctx, r); err != nil {
		return false, err
	}
	if err = uow.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

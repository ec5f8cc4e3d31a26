package commands

import (
	"context"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/route"
)

// routeChange loads a route, applies change and saves it in one transaction.
func routeChange(
	ctx context.Context,
	factory RouteUoWFactory,
	routeID kernel.UUID,
	change func(r *route.Route) error,
) error {
	uow := factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	routeRepo := uow.RouteRepository()
	r, err := routeRepo.Get(ctx, routeID)
	if err != nil {
		return err
	}

	if err = change(r); err != nil {
		return err
	}

	if err = routeRepo.Update(ctx, r); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

type AssignRouteDriverCommandHandler struct {
	uowFactory RouteUoWFactory
}

func NewAssignRouteDriverCommandHandler(uowFactory RouteUoWFactory) AssignRouteDriverCommandHandler {
	return AssignRouteDriverCommandHandler{uowFactory: uowFactory}
}

func (h *AssignRouteDriverCommandHandler) Handle(ctx context.Context, cmd AssignRouteDriverCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return routeChange(ctx, h.uowFactory, cmd.RouteID(), func(r *route.Route) error {
		if cmd.DriverID() == nil {
			return r.UnassignDriver()
		}
		return r.AssignDriver(*cmd.DriverID())
	})
}

type StartRouteCommandHandler struct {
	uowFactory RouteUoWFactory
}

func NewStartRouteCommandHandler(uowFactory RouteUoWFactory) StartRouteCommandHandler {
	return StartRouteCommandHandler{uowFactory: uowFactory}
}

// Handle starts the route. Its orders are moved to InTransit by the
// RouteStartedEvent reaction dispatched on commit.
func (h *StartRouteCommandHandler) Handle(ctx context.Context, cmd StartRouteCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return routeChange(ctx, h.uowFactory, cmd.RouteID(), (*route.Route).Start)
}

type CancelRouteCommandHandler struct {
	uowFactory RouteUoWFactory
}

func NewCancelRouteCommandHandler(uowFactory RouteUoWFactory) CancelRouteCommandHandler {
	return CancelRouteCommandHandler{uowFactory: uowFactory}
}

func (h *CancelRouteCommandHandler) Handle(ctx context.Context, cmd CancelRouteCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return routeChange(ctx, h.uowFactory, cmd.RouteID(), (*route.Route).Cancel)
}

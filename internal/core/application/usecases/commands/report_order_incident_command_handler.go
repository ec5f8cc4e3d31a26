package commands

import (
	"context"
	"time"

	"lastmile/internal/core/domain/model/order"
)

type ReportOrderIncidentCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewReportOrderIncidentCommandHandler(uowFactory OrderUoWFactory) ReportOrderIncidentCommandHandler {
	return ReportOrderIncidentCommandHandler{uowFactory: uowFactory}
}

func (h *ReportOrderIncidentCommandHandler) Handle(ctx context.Context, cmd ReportOrderIncidentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	incident, err := order.NewIncident(cmd.Kind(), cmd.Description(), time.Now().UTC())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = o.ReportIncident(incident); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

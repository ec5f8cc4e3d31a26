package commands

import (
	"context"
)

type RescheduleOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewRescheduleOrderCommandHandler(uowFactory OrderUoWFactory) RescheduleOrderCommandHandler {
	return RescheduleOrderCommandHandler{uowFactory: uowFactory}
}

func (h *RescheduleOrderCommandHandler) Handle(ctx context.Context, cmd RescheduleOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
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

	if err = o.Reschedule(cmd.Date()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

package commands

import (
	"context"

	"lastmile/internal/core/domain/model/kernel"
)

type CloseBatchCommandHandler struct {
	uowFactory BatchUoWFactory
}

func NewCloseBatchCommandHandler(uowFactory BatchUoWFactory) CloseBatchCommandHandler {
	return CloseBatchCommandHandler{uowFactory: uowFactory}
}

// Handle closes the open batch and returns its id. It returns
// errs.ObjectNotFoundError when no batch is open.
//
// Commit dispatches BatchClosedEvent, so route building runs before Handle
// returns. A route building failure is logged by the unit of work and the
// batch stays closed.
func (h *CloseBatchCommandHandler) Handle(ctx context.Context, cmd CloseBatchCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	batchRepo := uow.BatchRepository()
	open, err := batchRepo.GetOpen(ctx)
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = open.Close(); err != nil {
		return kernel.UUID{}, err
	}

	if err = batchRepo.Update(ctx, open); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return open.ID(), err
	}

	return open.ID(), nil
}

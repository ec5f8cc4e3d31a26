package commands

import (
	"context"
	"errors"

	"lastmile/internal/core/domain/model/batch"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/ports"
	"lastmile/internal/pkg/errs"
)

// CreateOrderCommandHandler creates a Pending order in the open batch.
// When no batch is open a new one is opened in the same transaction.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
type CreateOrderCommandHandler struct {
	uowFactory OrderingUoWFactory
}

func NewCreateOrderCommandHandler(uowFactory OrderingUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the order creation command.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
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

	batchRepo := uow.BatchRepository()
	openBatch, isNew, err := openOrNewBatch(ctx, batchRepo)
	if err != nil {
		return err
	}

	o, err := order.NewOrder(
		cmd.OrderID(),
		openBatch.ID(),
		cmd.CustomerID(),
		cmd.DeliveryAddress(),
		cmd.Location(),
		cmd.ScheduledDate(),
	)
	if err != nil {
		return err
	}

	for _, line := range cmd.Lines() {
		if err = o.AddItem(line.ProductID, line.Quantity); err != nil {
			return err
		}
	}

	if err = openBatch.AddOrders(1); err != nil {
		return err
	}

	// The batch row must exist before the order that references it.
	if isNew {
		err = batchRepo.Add(ctx, openBatch)
	} else {
		err = batchRepo.Update(ctx, openBatch)
	}
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func openOrNewBatch(ctx context.Context, repo ports.BatchRepository) (*batch.Batch, bool, error) {
	open, err := repo.GetOpen(ctx)
	if err == nil {
		return open, false, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, false, err
	}

	created, err := batch.NewBatch(kernel.NewUUID(), 0)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

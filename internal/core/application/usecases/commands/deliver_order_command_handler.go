package commands

import (
	"context"
	"errors"
	"time"

	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/ports"
)

var ErrProofStorageIsNotConfigured = errors.New("proof storage is not configured")

// DeliverOrderCommandHandler records a successful delivery.
// proofStorage may be nil when the deployment accepts deliveries without proof images.
type DeliverOrderCommandHandler struct {
	uowFactory   OrderUoWFactory
	proofStorage ports.ProofStorage
}

func NewDeliverOrderCommandHandler(uowFactory OrderUoWFactory, proofStorage ports.ProofStorage) DeliverOrderCommandHandler {
	return DeliverOrderCommandHandler{
		uowFactory:   uowFactory,
		proofStorage: proofStorage,
	}
}

// Handle uploads the proof (if any) once the order is known to be in transit,
// then delivers the order. A failure after the upload leaves an orphaned object
// in storage.
func (h *DeliverOrderCommandHandler) Handle(ctx context.Context, cmd DeliverOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if cmd.Proof() != nil && h.proofStorage == nil {
		return ErrProofStorageIsNotConfigured
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

	// Check the transition before uploading so a rejected delivery stores nothing.
	if _, err = o.Status().Deliver(); err != nil {
		return err
	}

	var proof *order.Proof
	if file := cmd.Proof(); file != nil {
		uploaded, uploadErr := h.proofStorage.Upload(ctx, file.Body, file.Filename, file.ContentType)
		if uploadErr != nil {
			return uploadErr
		}
		proof = &uploaded
	}

	delivery, err := order.NewDelivery(cmd.ReceiverName(), time.Now().UTC(), proof)
	if err != nil {
		return err
	}

	if err = o.Deliver(delivery); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

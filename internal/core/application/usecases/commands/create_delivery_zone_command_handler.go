package commands

import (
	"context"
	"errors"

	"lastmile/internal/core/domain/model/zone"
	"lastmile/internal/pkg/errs"
)

var ErrZoneCodeAlreadyExists = errs.NewConflictError(
	"DeliveryZone.CodeAlreadyExists", "a delivery zone with this code already exists")

type CreateDeliveryZoneCommandHandler struct {
	uowFactory DeliveryZoneUoWFactory
}

func NewCreateDeliveryZoneCommandHandler(uowFactory DeliveryZoneUoWFactory) CreateDeliveryZoneCommandHandler {
	return CreateDeliveryZoneCommandHandler{uowFactory: uowFactory}
}

// Handle creates the zone unless its code is taken.
func (h *CreateDeliveryZoneCommandHandler) Handle(ctx context.Context, cmd CreateDeliveryZoneCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	z, err := zone.NewDeliveryZone(cmd.ZoneID(), cmd.Code(), cmd.Name(), cmd.Boundary(), cmd.DriverID())
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

	zoneRepo := uow.DeliveryZoneRepository()
	_, err = zoneRepo.GetByCode(ctx, z.Code())
	switch {
	case err == nil:
		return ErrZoneCodeAlreadyExists.WithMessage("delivery zone %s already exists", z.Code())
	case !errors.Is(err, errs.ErrObjectNotFound):
		return err
	}

	if err = zoneRepo.Add(ctx, z); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

type AssignZoneDriverCommandHandler struct {
	uowFactory DeliveryZoneUoWFactory
}

func NewAssignZoneDriverCommandHandler(uowFactory DeliveryZoneUoWFactory) AssignZoneDriverCommandHandler {
	return AssignZoneDriverCommandHandler{uowFactory: uowFactory}
}

func (h *AssignZoneDriverCommandHandler) Handle(ctx context.Context, cmd AssignZoneDriverCommand) error {
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

	zoneRepo := uow.DeliveryZoneRepository()
	z, err := zoneRepo.Get(ctx, cmd.ZoneID())
	if err != nil {
		return err
	}

	if cmd.DriverID() == nil {
		z.UnassignDriver()
	} else if err = z.AssignDriver(*cmd.DriverID()); err != nil {
		return err
	}

	if err = zoneRepo.Update(ctx, z); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

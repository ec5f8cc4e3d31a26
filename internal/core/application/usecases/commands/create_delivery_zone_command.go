package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/guard"
)

var ErrCreateDeliveryZoneCommandIsNotConstructed = errors.New(
	"CreateDeliveryZoneCommand must be created via NewCreateDeliveryZoneCommand constructor",
)

// CreateDeliveryZoneCommand registers a polygon served by one route per batch.
// The boundary is validated here so malformed polygons never reach the handler.
type CreateDeliveryZoneCommand struct { //nolint:recvcheck //using for validation
	zoneID   kernel.UUID
	code     string
	name     string
	boundary kernel.Boundary
	driverID *kernel.UUID

	guard guard.ConstructorGuard
}

func NewCreateDeliveryZoneCommand(
	zoneID kernel.UUID,
	code, name string,
	points []kernel.GeoPoint,
	driverID *kernel.UUID,
) (CreateDeliveryZoneCommand, error) {
	boundary, boundaryErr := kernel.NewBoundary(points)

	var driverErr error
	if driverID != nil {
		driverErr = driverID.Validate()
	}

	if err := errors.Join(zoneID.Validate(), boundaryErr, driverErr); err != nil {
		return CreateDeliveryZoneCommand{}, err
	}

	return CreateDeliveryZoneCommand{
		zoneID:   zoneID,
		code:     code,
		name:     name,
		boundary: boundary,
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c CreateDeliveryZoneCommand) Validate() error {
	return c.guard.Validate(ErrCreateDeliveryZoneCommandIsNotConstructed)
}

func (c CreateDeliveryZoneCommand) ZoneID() kernel.UUID {
	return c.zoneID
}

func (c CreateDeliveryZoneCommand) Code() string {
	return c.code
}

func (c CreateDeliveryZoneCommand) Name() string {
	return c.name
}

func (c CreateDeliveryZoneCommand) Boundary() kernel.Boundary {
	return c.boundary
}

func (c CreateDeliveryZoneCommand) DriverID() *kernel.UUID {
	return c.driverID
}

var ErrAssignZoneDriverCommandIsNotConstructed = errors.New(
	"AssignZoneDriverCommand must be created via NewAssignZoneDriverCommand constructor",
)

// AssignZoneDriverCommand sets the driver that routes built for the zone start with.
// A nil driverID clears it. Existing routes are not affected.
type AssignZoneDriverCommand struct { //nolint:recvcheck //using for validation
	zoneID   kernel.UUID
	driverID *kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignZoneDriverCommand(zoneID kernel.UUID, driverID *kernel.UUID) (AssignZoneDriverCommand, error) {
	var driverErr error
	if driverID != nil {
		driverErr = driverID.Validate()
	}
	if err := errors.Join(zoneID.Validate(), driverErr); err != nil {
		return AssignZoneDriverCommand{}, err
	}

	return AssignZoneDriverCommand{
		zoneID:   zoneID,
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c AssignZoneDriverCommand) Validate() error {
	return c.guard.Validate(ErrAssignZoneDriverCommandIsNotConstructed)
}

func (c AssignZoneDriverCommand) ZoneID() kernel.UUID {
	return c.zoneID
}

func (c AssignZoneDriverCommand) DriverID() *kernel.UUID {
	return c.driverID
}

// Package zone implements the DeliveryZone aggregate: a named geofence with an
// optional default driver for the routes generated inside it.
package zone

import (
	"errors"
	"regexp"
	"strings"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var codePattern = regexp.MustCompile(`^[A-Z]{3}-\d{3}$`)

var (
	ErrDeliveryZoneIsNotConstructed = errors.New("DeliveryZone must be created via NewDeliveryZone constructor")

	ErrInvalidCode = errs.NewValidationError(
		"DeliveryZone.InvalidCode", "zone code must match AAA-000")
	ErrNameIsRequired = errs.NewValidationError(
		"DeliveryZone.NameIsRequired", "zone name is required")
)

type DeliveryZone struct {
	id       kernel.UUID
	driverID *kernel.UUID
	code     string
	name     string
	boundary kernel.Boundary
	guard    guard.ConstructorGuard
}

func NewDeliveryZone(
	id kernel.UUID,
	code, name string,
	boundary kernel.Boundary,
	driverID *kernel.UUID,
) (*DeliveryZone, error) {
	z := &DeliveryZone{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		id.Validate(),
		z.setCode(code),
		z.setName(name),
		boundary.Validate(),
		z.setDriver(driverID),
	); err != nil {
		return nil, err
	}
	z.id = id
	z.boundary = boundary

	return z, nil
}

// RestoreDeliveryZone rebuilds a zone from storage; it applies the same validation as NewDeliveryZone.
func RestoreDeliveryZone(
	id kernel.UUID,
	code, name string,
	boundary kernel.Boundary,
	driverID *kernel.UUID,
) (*DeliveryZone, error) {
	return NewDeliveryZone(id, code, name, boundary, driverID)
}

func (z *DeliveryZone) Validate() error {
	if z == nil {
		return ErrDeliveryZoneIsNotConstructed
	}
	return z.guard.Validate(ErrDeliveryZoneIsNotConstructed)
}

func (z *DeliveryZone) ID() kernel.UUID {
	return z.id
}

func (z *DeliveryZone) DriverID() *kernel.UUID {
	return z.driverID
}

func (z *DeliveryZone) Code() string {
	return z.code
}

func (z *DeliveryZone) Name() string {
	return z.name
}

func (z *DeliveryZone) Boundary() kernel.Boundary {
	return z.boundary
}

// Contains reports whether point lies inside the zone boundary.
func (z *DeliveryZone) Contains(point kernel.GeoPoint) bool {
	return z.boundary.Contains(point)
}

func (z *DeliveryZone) AssignDriver(driverID kernel.UUID) error {
	return z.setDriver(&driverID)
}

func (z *DeliveryZone) UnassignDriver() {
	z.driverID = nil
}

func (z *DeliveryZone) setCode(code string) error {
	if !codePattern.MatchString(code) {
		return ErrInvalidCode.WithMessage("zone code %q must match AAA-000", code)
	}
	z.code = code
	return nil
}

func (z *DeliveryZone) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	z.name = name
	return nil
}

func (z *DeliveryZone) setDriver(driverID *kernel.UUID) error {
	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return err
		}
	}
	z.driverID = driverID
	return nil
}

package route

import (
	"errors"
	"fmt"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var (
	ErrRouteIsNotConstructed = errors.New("Route must be created via NewRoute constructor")

	ErrInvalidStatusTransition = errs.NewValidationError(
		"Route.InvalidStatusTransition", "invalid route status transition")
	ErrDriverIsRequired = errs.NewValidationError(
		"Route.DriverIsRequired", "a driver is required to start a route")
	ErrCannotChangeDriverUnlessPending = errs.NewValidationError(
		"Route.CannotChangeDriverUnlessPending", "the driver of a route can only change while it is pending")
)

// Route is the ordered set of visits one driver makes for one zone of one batch.
// The visiting order itself lives on the member orders as their delivery sequence.
type Route struct {
	id             kernel.UUID
	batchID        kernel.UUID
	deliveryZoneID kernel.UUID
	driverID       *kernel.UUID
	originLocation kernel.GeoPoint
	status         Status
	createdAt      time.Time
	startedAt      *time.Time
	completedAt    *time.Time

	kernel.Versioned
	kernel.EventRecorder
	guard guard.ConstructorGuard
}

// NewRoute creates a Pending route. driverID may be nil.
func NewRoute(
	id, batchID, deliveryZoneID kernel.UUID,
	driverID *kernel.UUID,
	originLocation kernel.GeoPoint,
) (*Route, error) {
	r := &Route{
		status:    Pending,
		createdAt: time.Now().UTC(),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setIdentity(id, batchID, deliveryZoneID),
		r.setDriver(driverID),
		r.setOrigin(originLocation),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// State is the persisted form of a Route used by RestoreRoute.
type State struct {
	ID             kernel.UUID
	BatchID        kernel.UUID
	DeliveryZoneID kernel.UUID
	DriverID       *kernel.UUID
	OriginLocation kernel.GeoPoint
	Status         Status
	CreatedAt      time.Time
	StartedAt      *time.Time
	CompletedAt    *time.Time
	Version        int
}

func RestoreRoute(s State) (*Route, error) {
	r := &Route{
		createdAt:   s.CreatedAt,
		startedAt:   s.StartedAt,
		completedAt: s.CompletedAt,
		guard:       guard.NewConstructorGuard(),
	}
	r.SetVersion(s.Version)

	if err := errors.Join(
		r.setIdentity(s.ID, s.BatchID, s.DeliveryZoneID),
		r.setDriver(s.DriverID),
		r.setOrigin(s.OriginLocation),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}
	r.status = s.Status

	return r, nil
}

func (r *Route) Validate() error {
	if r == nil {
		return ErrRouteIsNotConstructed
	}
	return r.guard.Validate(ErrRouteIsNotConstructed)
}

func (r *Route) ID() kernel.UUID {
	return r.id
}

func (r *Route) BatchID() kernel.UUID {
	return r.batchID
}

func (r *Route) DeliveryZoneID() kernel.UUID {
	return r.deliveryZoneID
}

// DriverID returns nil while no driver is assigned.
func (r *Route) DriverID() *kernel.UUID {
	return r.driverID
}

func (r *Route) OriginLocation() kernel.GeoPoint {
	return r.originLocation
}

func (r *Route) Status() Status {
	return r.status
}

func (r *Route) CreatedAt() time.Time {
	return r.createdAt
}

func (r *Route) StartedAt() *time.Time {
	return r.startedAt
}

func (r *Route) CompletedAt() *time.Time {
	return r.completedAt
}

func (r *Route) AssignDriver(driverID kernel.UUID) error {
	if r.status != Pending {
		return ErrCannotChangeDriverUnlessPending.WithMessage("cannot assign a driver to a route in status %s", r.status)
	}
	return r.setDriver(&driverID)
}

func (r *Route) UnassignDriver() error {
	if r.status != Pending {
		return ErrCannotChangeDriverUnlessPending.WithMessage("cannot unassign the driver of a route in status %s", r.status)
	}
	r.driverID = nil
	return nil
}

// Start moves a Pending route with a driver to InProgress and records RouteStartedEvent.
func (r *Route) Start() error {
	newStatus, err := r.status.Start()
	if err != nil {
		return err
	}
	if r.driverID == nil {
		return ErrDriverIsRequired
	}

	now := time.Now().UTC()
	r.status = newStatus
	r.startedAt = &now
	r.RecordEvent(RouteStartedEvent{
		BaseEvent: kernel.NewBaseEvent(RouteStartedEventType, r.id),
		driverID:  *r.driverID,
	})
	return nil
}

// Complete moves an InProgress route to Completed. Completing an already
// completed route succeeds without recording a second event.
func (r *Route) Complete() error {
	if r.status == Completed {
		return nil
	}

	newStatus, err := r.status.Complete()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	r.status = newStatus
	r.completedAt = &now
	r.RecordEvent(RouteCompletedEvent{BaseEvent: kernel.NewBaseEvent(RouteCompletedEventType, r.id)})
	return nil
}

// Cancel is allowed from any state except Completed. Cancelling a cancelled route is a no-op.
func (r *Route) Cancel() error {
	if r.status == Cancelled {
		return nil
	}

	newStatus, err := r.status.Cancel()
	if err != nil {
		return err
	}

	r.status = newStatus
	r.RecordEvent(RouteCancelledEvent{BaseEvent: kernel.NewBaseEvent(RouteCancelledEventType, r.id)})
	return nil
}

func (r *Route) setIdentity(id, batchID, deliveryZoneID kernel.UUID) error {
	if err := errors.Join(
		id.Validate(),
		wrapID("batch id", batchID.Validate()),
		wrapID("delivery zone id", deliveryZoneID.Validate()),
	); err != nil {
		return err
	}
	r.id = id
	r.batchID = batchID
	r.deliveryZoneID = deliveryZoneID
	return nil
}

func (r *Route) setDriver(driverID *kernel.UUID) error {
	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return wrapID("driver id", err)
		}
	}
	r.driverID = driverID
	return nil
}

func (r *Route) setOrigin(origin kernel.GeoPoint) error {
	if err := origin.Validate(); err != nil {
		return err
	}
	r.originLocation = origin
	return nil
}

func wrapID(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

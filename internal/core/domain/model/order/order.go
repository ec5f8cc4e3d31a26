package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var (
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	ErrInvalidStatusTransition = errs.NewValidationError(
		"Order.InvalidStatusTransition", "invalid order status transition")
	ErrCannotModifyOrderThatIsNotPending = errs.NewValidationError(
		"Order.CannotModifyOrderThatIsNotPending", "only pending orders can be modified")
	ErrDeliverySequenceMustBeGreaterThanZero = errs.NewValidationError(
		"Order.DeliverySequenceMustBeGreaterThanZero", "delivery sequence must be greater than zero")
	ErrCannotAssignOrderWithoutItems = errs.NewValidationError(
		"Order.CannotAssignOrderWithoutItems", "route assignment requires at least one item")
	ErrIncidentAlreadyReported = errs.NewValidationError(
		"Order.IncidentAlreadyReported", "an incident has already been reported for this order")
	ErrScheduledDeliveryDateInPast = errs.NewValidationError(
		"Order.ScheduledDeliveryDateInPast", "scheduled delivery date cannot be in the past")
	ErrDeliveryAddressIsRequired = errs.NewValidationError(
		"Order.DeliveryAddressIsRequired", "delivery address is required")
	ErrItemQuantityMustBePositive = errs.NewValidationError(
		"Order.ItemQuantityMustBeGreaterThanZero", "item quantity must be greater than zero")
	ErrReceiverNameIsRequired = errs.NewValidationError(
		"Order.ReceiverNameIsRequired", "receiver name is required")
)

// Order is a customer's request to deliver a set of items to one address.
// It belongs to exactly one batch and, once routed, to one route.
type Order struct {
	id                    kernel.UUID
	batchID               kernel.UUID
	customerID            kernel.UUID
	routeID               *kernel.UUID
	deliverySequence      *int
	status                Status
	scheduledDeliveryDate time.Time
	deliveryAddress       string
	deliveryLocation      kernel.GeoPoint
	items                 []*Item
	delivery              *Delivery
	incident              *Incident
	createdAt             time.Time

	kernel.Versioned
	kernel.EventRecorder
	guard guard.ConstructorGuard
}

// NewOrder creates a Pending order without items.
// scheduledDeliveryDate is truncated to a UTC calendar day and must not be before today.
func NewOrder(
	id, batchID, customerID kernel.UUID,
	deliveryAddress string,
	deliveryLocation kernel.GeoPoint,
	scheduledDeliveryDate time.Time,
) (*Order, error) {
	o := &Order{
		status:    Pending,
		items:     make([]*Item, 0),
		createdAt: time.Now().UTC(),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setBatchID(batchID),
		o.setCustomerID(customerID),
		o.setDeliveryAddress(deliveryAddress),
		o.setDeliveryLocation(deliveryLocation),
		o.setScheduledDeliveryDate(scheduledDeliveryDate),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// State is the persisted form of an Order used by RestoreOrder.
type State struct {
	ID                    kernel.UUID
	BatchID               kernel.UUID
	CustomerID            kernel.UUID
	RouteID               *kernel.UUID
	DeliverySequence      *int
	Status                Status
	ScheduledDeliveryDate time.Time
	DeliveryAddress       string
	DeliveryLocation      kernel.GeoPoint
	Items                 []*Item
	Delivery              *Delivery
	Incident              *Incident
	CreatedAt             time.Time
	Version               int
}

// RestoreOrder rebuilds an order from storage. It skips the scheduled date
// check, since persisted orders may legitimately be scheduled in the past.
func RestoreOrder(s State) (*Order, error) {
	o := &Order{
		routeID:               s.RouteID,
		deliverySequence:      s.DeliverySequence,
		scheduledDeliveryDate: s.ScheduledDeliveryDate,
		items:                 make([]*Item, 0, len(s.Items)),
		delivery:              s.Delivery,
		incident:              s.Incident,
		createdAt:             s.CreatedAt,
		guard:                 guard.NewConstructorGuard(),
	}
	o.SetVersion(s.Version)

	if err := errors.Join(
		o.setID(s.ID),
		o.setBatchID(s.BatchID),
		o.setCustomerID(s.CustomerID),
		o.setDeliveryAddress(s.DeliveryAddress),
		o.setDeliveryLocation(s.DeliveryLocation),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}
	o.status = s.Status

	for _, item := range s.Items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		o.items = append(o.items, item)
	}

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) BatchID() kernel.UUID {
	return o.batchID
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// RouteID returns nil until the order is assigned to a route.
func (o *Order) RouteID() *kernel.UUID {
	return o.routeID
}

// DeliverySequence is the 1-based visiting position within the route, or nil.
func (o *Order) DeliverySequence() *int {
	return o.deliverySequence
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) IsTerminal() bool {
	return o.status.IsTerminal()
}

func (o *Order) ScheduledDeliveryDate() time.Time {
	return o.scheduledDeliveryDate
}

func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

func (o *Order) DeliveryLocation() kernel.GeoPoint {
	return o.deliveryLocation
}

// Items returns a copy of the item slice.
func (o *Order) Items() []*Item {
	out := make([]*Item, len(o.items))
	copy(out, o.items)
	return out
}

func (o *Order) Delivery() *Delivery {
	return o.delivery
}

func (o *Order) Incident() *Incident {
	return o.incident
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// AddItem adds a product line. Adding a product already present increases its quantity.
func (o *Order) AddItem(productID kernel.UUID, quantity int) error {
	if err := o.ensurePending(); err != nil {
		return err
	}

	for _, item := range o.items {
		if item.ProductID().IsEqual(productID) {
			return item.increase(quantity)
		}
	}

	item, err := NewItem(productID, quantity)
	if err != nil {
		return err
	}
	o.items = append(o.items, item)
	return nil
}

// Reschedule moves the delivery date of a pending order.
func (o *Order) Reschedule(date time.Time) error {
	if err := o.ensurePending(); err != nil {
		return err
	}
	return o.setScheduledDeliveryDate(date)
}

// AssignToRoute places a pending order at a position within a route.
// Checks run in order: status, sequence, items. Status is left unchanged.
func (o *Order) AssignToRoute(routeID kernel.UUID, sequence int) error {
	if o.status != Pending {
		return ErrCannotModifyOrderThatIsNotPending.WithMessage(
			"cannot assign order in status %s to a route", o.status)
	}
	if sequence <= 0 {
		return ErrDeliverySequenceMustBeGreaterThanZero.WithMessage(
			"delivery sequence must be greater than zero, got %d", sequence)
	}
	if len(o.items) == 0 {
		return ErrCannotAssignOrderWithoutItems
	}
	if err := routeID.Validate(); err != nil {
		return err
	}

	o.routeID = &routeID
	o.deliverySequence = &sequence
	return nil
}

func (o *Order) MarkAsInTransit() error {
	newStatus, err := o.status.MarkAsInTransit()
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

// Cancel records OrderCancelledEvent.
func (o *Order) Cancel() error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.RecordEvent(OrderCancelledEvent{terminalEvent: newTerminalEvent(OrderCancelledEventType, o)})
	return nil
}

// Deliver records OrderDeliveredEvent.
func (o *Order) Deliver(delivery *Delivery) error {
	if delivery == nil {
		return errs.NewValueIsRequiredError("delivery")
	}

	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.delivery = delivery
	o.RecordEvent(OrderDeliveredEvent{
		terminalEvent: newTerminalEvent(OrderDeliveredEventType, o),
		receiverName:  delivery.ReceiverName(),
	})
	return nil
}

// ReportIncident fails an in-transit order. Only one incident can ever be recorded.
func (o *Order) ReportIncident(incident *Incident) error {
	if incident == nil {
		return errs.NewValueIsRequiredError("incident")
	}
	if o.incident != nil {
		return ErrIncidentAlreadyReported
	}

	newStatus, err := o.status.Fail()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.incident = incident
	o.RecordEvent(OrderIncidentReportedEvent{
		terminalEvent: newTerminalEvent(OrderIncidentReportedEventType, o),
		kind:          incident.Kind(),
	})
	return nil
}

func (o *Order) ensurePending() error {
	if o.status != Pending {
		return ErrCannotModifyOrderThatIsNotPending.WithMessage(
			"order is %s, only pending orders can be modified", o.status)
	}
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setBatchID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return fmt.Errorf("batch id: %w", err)
	}
	o.batchID = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return fmt.Errorf("customer id: %w", err)
	}
	o.customerID = id
	return nil
}

func (o *Order) setDeliveryAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return ErrDeliveryAddressIsRequired
	}
	o.deliveryAddress = address
	return nil
}

func (o *Order) setDeliveryLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	o.deliveryLocation = location
	return nil
}

func (o *Order) setScheduledDeliveryDate(date time.Time) error {
	day := truncateToDay(date)
	if day.Before(truncateToDay(time.Now())) {
		return ErrScheduledDeliveryDateInPast.WithMessage(
			"scheduled delivery date %s is before today", day.Format(time.DateOnly))
	}
	o.scheduledDeliveryDate = day
	return nil
}

func truncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

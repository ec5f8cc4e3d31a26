package commands

import (
	"errors"
	"strings"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrDeliveryAddressIsRequired = errs.NewValueIsRequiredError("delivery address")
	ErrScheduledDateIsRequired   = errs.NewValueIsRequiredError("scheduled delivery date")
)

// OrderLine is one product and quantity requested with a new order.
type OrderLine struct {
	ProductID kernel.UUID
	Quantity  int
}

// CreateOrderCommand represents a customer request to deliver items to an address.
// The order joins whichever batch is open when the command is handled.
//
// Example:
//
//	location, _ := kernel.NewGeoPoint(-23.5505, -46.6333)
//	cmd, err := NewCreateOrderCommand(
//	    kernel.NewUUID(), customerID, "Av. Paulista 1000", location, tomorrow,
//	    []OrderLine{{ProductID: productID, Quantity: 2}},
//	)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	customerID      kernel.UUID
	deliveryAddress string
	location        kernel.GeoPoint
	scheduledDate   time.Time
	lines           []OrderLine

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates identifiers, address, location and date.
// Item quantities are checked by the order aggregate when the command is handled.
func NewCreateOrderCommand(
	orderID, customerID kernel.UUID,
	deliveryAddress string,
	location kernel.GeoPoint,
	scheduledDate time.Time,
	lines []OrderLine,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomerID(customerID),
		cmd.setDeliveryAddress(deliveryAddress),
		cmd.setLocation(location),
		cmd.setScheduledDate(scheduledDate),
		cmd.setLines(lines),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

func (c CreateOrderCommand) DeliveryAddress() string {
	return c.deliveryAddress
}

func (c CreateOrderCommand) Location() kernel.GeoPoint {
	return c.location
}

func (c CreateOrderCommand) ScheduledDate() time.Time {
	return c.scheduledDate
}

// Lines returns a copy of the requested order lines.
func (c CreateOrderCommand) Lines() []OrderLine {
	out := make([]OrderLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *CreateOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.orderID = id
	return nil
}

func (c *CreateOrderCommand) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.customerID = id
	return nil
}

func (c *CreateOrderCommand) setDeliveryAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return ErrDeliveryAddressIsRequired
	}

	c.deliveryAddress = address
	return nil
}

func (c *CreateOrderCommand) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = location
	return nil
}

func (c *CreateOrderCommand) setScheduledDate(date time.Time) error {
	if date.IsZero() {
		return ErrScheduledDateIsRequired
	}

	c.scheduledDate = date
	return nil
}

func (c *CreateOrderCommand) setLines(lines []OrderLine) error {
	var errList []error
	for _, line := range lines {
		if err := line.ProductID.Validate(); err != nil {
			errList = append(errList, err)
		}
	}
	if len(errList) > 0 {
		return errors.Join(errList...)
	}

	c.lines = append([]OrderLine(nil), lines...)
	return nil
}

package commands

import (
	"errors"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/guard"
)

var ErrRescheduleOrderCommandIsNotConstructed = errors.New(
	"RescheduleOrderCommand must be created via NewRescheduleOrderCommand constructor",
)

// RescheduleOrderCommand moves a pending order to another delivery day.
type RescheduleOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	date    time.Time

	guard guard.ConstructorGuard
}

func NewRescheduleOrderCommand(orderID kernel.UUID, date time.Time) (RescheduleOrderCommand, error) {
	var dateErr error
	if date.IsZero() {
		dateErr = ErrScheduledDateIsRequired
	}
	if err := errors.Join(orderID.Validate(), dateErr); err != nil {
		return RescheduleOrderCommand{}, err
	}

	return RescheduleOrderCommand{
		orderID: orderID,
		date:    date,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RescheduleOrderCommand) Validate() error {
	return c.guard.Validate(ErrRescheduleOrderCommandIsNotConstructed)
}

func (c RescheduleOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c RescheduleOrderCommand) Date() time.Time { return c.date }

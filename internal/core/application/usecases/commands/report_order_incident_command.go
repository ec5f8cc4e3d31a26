package commands

import (
	"errors"
	"strings"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/pkg/guard"
)

var ErrReportOrderIncidentCommandIsNotConstructed = errors.New(
	"ReportOrderIncidentCommand must be created via NewReportOrderIncidentCommand constructor",
)

// ReportOrderIncidentCommand records why a delivery attempt failed.
// The order moves to Failed.
type ReportOrderIncidentCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	kind        order.IncidentKind
	description string

	guard guard.ConstructorGuard
}

func NewReportOrderIncidentCommand(
	orderID kernel.UUID,
	kind order.IncidentKind,
	description string,
) (ReportOrderIncidentCommand, error) {
	if err := errors.Join(orderID.Validate(), kind.Validate()); err != nil {
		return ReportOrderIncidentCommand{}, err
	}

	return ReportOrderIncidentCommand{
		orderID:     orderID,
		kind:        kind,
		description: strings.TrimSpace(description),
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c ReportOrderIncidentCommand) Validate() error {
	return c.guard.Validate(ErrReportOrderIncidentCommandIsNotConstructed)
}

func (c ReportOrderIncidentCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ReportOrderIncidentCommand) Kind() order.IncidentKind {
	return c.kind
}

func (c ReportOrderIncidentCommand) Description() string {
	return c.description
}

package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/guard"
)

var (
	ErrAssignRouteDriverCommandIsNotConstructed = errors.New(
		"AssignRouteDriverCommand must be created via NewAssignRouteDriverCommand constructor",
	)
	ErrStartRouteCommandIsNotConstructed = errors.New(
		"StartRouteCommand must be created via NewStartRouteCommand constructor",
	)
	ErrCancelRouteCommandIsNotConstructed = errors.New(
		"CancelRouteCommand must be created via NewCancelRouteCommand constructor",
	)
)

// AssignRouteDriverCommand sets or clears the driver of a pending route.
// A nil driverID unassigns the current driver.
type AssignRouteDriverCommand struct { //nolint:recvcheck //using for validation
	routeID  kernel.UUID
	driverID *kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignRouteDriverCommand(routeID kernel.UUID, driverID *kernel.UUID) (AssignRouteDriverCommand, error) {
	var driverErr error
	if driverID != nil {
		driverErr = driverID.Validate()
	}
	if err := errors.Join(routeID.Validate(), driverErr); err != nil {
		return AssignRouteDriverCommand{}, err
	}

	return AssignRouteDriverCommand{
		routeID:  routeID,
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c AssignRouteDriverCommand) Validate() error {
	return c.guard.Validate(ErrAssignRouteDriverCommandIsNotConstructed)
}

func (c AssignRouteDriverCommand) RouteID() kernel.UUID {
	return c.routeID
}

func (c AssignRouteDriverCommand) DriverID() *kernel.UUID {
	return c.driverID
}

// StartRouteCommand sends a pending route with a driver on its way.
// Every pending order of the route moves to InTransit.
type StartRouteCommand struct { //nolint:recvcheck //using for validation
	routeID kernel.UUID

	guard guard.ConstructorGuard
}

func NewStartRouteCommand(routeID kernel.UUID) (StartRouteCommand, error) {
	if err := routeID.Validate(); err != nil {
		return StartRouteCommand{}, err
	}

	return StartRouteCommand{routeID: routeID, guard: guard.NewConstructorGuard()}, nil
}

func (c StartRouteCommand) Validate() error {
	return c.guard.Validate(ErrStartRouteCommandIsNotConstructed)
}

func (c StartRouteCommand) RouteID() kernel.UUID {
	return c.routeID
}

// CancelRouteCommand cancels a route that has not completed.
// Every non-terminal order of the route is cancelled with it.
type CancelRouteCommand struct { //nolint:recvcheck //using for validation
	routeID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCancelRouteCommand(routeID kernel.UUID) (CancelRouteCommand, error) {
	if err := routeID.Validate(); err != nil {
		return CancelRouteCommand{}, err
	}

	return CancelRouteCommand{routeID: routeID, guard: guard.NewConstructorGuard()}, nil
}

func (c CancelRouteCommand) Validate() error {
	return c.guard.Validate(ErrCancelRouteCommandIsNotConstructed)
}

func (c CancelRouteCommand) RouteID() kernel.UUID {
	return c.routeID
}

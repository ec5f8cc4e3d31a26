// Package queries holds the read side of the service. Handlers run raw SQL
// against the read tables and return flat response structs; they never load
// aggregates.
package queries

import (
	"errors"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/guard"
)

var (
	ErrGetRouteDetailsQueryIsNotConstructed = errors.New(
		"GetRouteDetailsQuery must be created via NewGetRouteDetailsQuery constructor",
	)
)

// GetRouteDetailsQuery fetches a route together with its stops.
//
// Example:
//
//	query, err := NewGetRouteDetailsQuery(routeID)
//	if err != nil {
//	    return err
//	}
//
//	details, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to load route: %w", err)
//	}
//
//	for _, stop := range details.Stops {
//	    fmt.Printf("%d. %s\n", stop.Sequence, stop.DeliveryAddress)
//	}
type GetRouteDetailsQuery struct {
	routeID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetRouteDetailsQuery(routeID kernel.UUID) (GetRouteDetailsQuery, error) {
	if err := routeID.Validate(); err != nil {
		return GetRouteDetailsQuery{}, err
	}
	return GetRouteDetailsQuery{routeID: routeID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetRouteDetailsQuery) Validate() error {
	return q.guard.Validate(ErrGetRouteDetailsQueryIsNotConstructed)
}

func (q GetRouteDetailsQuery) RouteID() kernel.UUID {
	return q.routeID
}

// GetRouteDetailsQueryResponse is a route and its stops in delivery order.
// Statuses are the names produced by the domain Status.String methods.
type GetRouteDetailsQueryResponse struct {
	ID             kernel.UUID
	BatchID        kernel.UUID
	DeliveryZoneID kernel.UUID
	DriverID       *kernel.UUID
	Status         string
	Origin         kernel.GeoPoint
	CreatedAt      time.Time
	StartedAt      *time.Time
	CompletedAt    *time.Time
	Stops          []RouteStop
}

// RouteStop is one order on a route.
type RouteStop struct {
	OrderID         kernel.UUID
	Sequence        int
	Status          string
	DeliveryAddress string
	Location        kernel.GeoPoint
}

package ports

import (
	"context"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
)

// ErrNotEnoughWaypoints is returned by optimizers for fewer than two waypoints.
var ErrNotEnoughWaypoints = errs.NewValidationError(
	"RouteOptimizer.NotEnoughWaypoints", "at least two waypoints are required")

// Waypoint is an order's delivery location submitted for optimization.
type Waypoint struct {
	ID       kernel.UUID
	Location kernel.GeoPoint
}

// SequencedWaypoint is a waypoint's 1-based position in the optimized tour.
type SequencedWaypoint struct {
	ID       kernel.UUID
	Sequence int
}

// RouteOptimizer orders waypoints into a round trip starting and ending at origin.
type RouteOptimizer interface {
	// Optimize requires at least two waypoints. On success the result covers
	// every input waypoint exactly once with sequences 1..N.
	Optimize(ctx context.Context, origin kernel.GeoPoint, waypoints []Waypoint) ([]SequencedWaypoint, error)
}

package kernel

import (
	"errors"

	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

const minBoundaryPoints = 3

var (
	ErrInsufficientPoints = errs.NewValidationError(
		"Boundary.InsufficientPoints", "a boundary requires at least 3 distinct points")
	ErrConsecutiveDuplicatePoints = errs.NewValidationError(
		"Boundary.ConsecutiveDuplicatePoints", "a boundary cannot contain two equal consecutive points")
	ErrBoundaryIsNotConstructed = errors.New("Boundary must be created via NewBoundary")
)

// Boundary is a closed polygon ring used as a delivery zone geofence.
// After construction the first and last coordinates are always equal.
//
// Boundaries are expected to describe simple polygons. Self-intersecting
// rings are not rejected and their containment results are unspecified.
type Boundary struct {
	coordinates []GeoPoint
	guard       guard.ConstructorGuard
}

// NewBoundary validates points and closes the ring if the caller has not.
// A point repeated at non-adjacent positions (a pinched polygon) is accepted.
func NewBoundary(points []GeoPoint) (Boundary, error) {
	if len(points) < minBoundaryPoints {
		return Boundary{}, ErrInsufficientPoints.WithMessage(
			"a boundary requires at least %d points, got %d", minBoundaryPoints, len(points))
	}

	for i, p := range points {
		if err := p.Validate(); err != nil {
			return Boundary{}, err
		}
		if i > 0 && p.IsEqual(points[i-1]) {
			return Boundary{}, ErrConsecutiveDuplicatePoints.WithMessage(
				"points %d and %d are equal: %s", i-1, i, p)
		}
	}

	coordinates := make([]GeoPoint, len(points), len(points)+1)
	copy(coordinates, points)
	if !coordinates[0].IsEqual(coordinates[len(coordinates)-1]) {
		coordinates = append(coordinates, coordinates[0])
	}

	if n := countDistinct(coordinates[:len(coordinates)-1]); n < minBoundaryPoints {
		return Boundary{}, ErrInsufficientPoints.WithMessage(
			"a boundary requires at least %d distinct points, got %d", minBoundaryPoints, n)
	}

	return Boundary{
		coordinates: coordinates,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func countDistinct(points []GeoPoint) int {
	distinct := make([]GeoPoint, 0, len(points))
outer:
	for _, p := range points {
		for _, d := range distinct {
			if d.IsEqual(p) {
				continue outer
			}
		}
		distinct = append(distinct, p)
	}
	return len(distinct)
}

func (b Boundary) Validate() error {
	return b.guard.Validate(ErrBoundaryIsNotConstructed)
}

// Coordinates returns a copy of the closed ring.
func (b Boundary) Coordinates() []GeoPoint {
	out := make([]GeoPoint, len(b.coordinates))
	copy(out, b.coordinates)
	return out
}

// Contains runs an even-odd ray-casting test, casting a ray from point towards
// increasing longitude. Points lying exactly on an edge have undefined parity.
func (b Boundary) Contains(point GeoPoint) bool {
	inside := false
	for i := 1; i < len(b.coordinates); i++ {
		a, c := b.coordinates[i-1], b.coordinates[i]
		if (a.latitude > point.latitude) == (c.latitude > point.latitude) {
			continue
		}
		crossLon := a.longitude + (point.latitude-a.latitude)*(c.longitude-a.longitude)/(c.latitude-a.latitude)
		if point.longitude < crossLon {
			inside = !inside
		}
	}
	return inside
}

// Center is the arithmetic mean of the vertices, excluding the closing point.
func (b Boundary) Center() GeoPoint {
	if len(b.coordinates) == 0 {
		return GeoPoint{}
	}

	vertices := b.coordinates[:len(b.coordinates)-1]
	var lat, lon float64
	for _, p := range vertices {
		lat += p.latitude
		lon += p.longitude
	}
	n := float64(len(vertices))

	return GeoPoint{latitude: lat / n, longitude: lon / n, guard: guard.NewConstructorGuard()}
}

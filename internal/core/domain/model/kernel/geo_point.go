package kernel

import (
	"errors"
	"fmt"
	"math"

	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

const (
	minLatitude  = -90.0
	maxLatitude  = 90.0
	minLongitude = -180.0
	maxLongitude = 180.0

	// coordinateTolerance is the per-axis tolerance used when comparing points.
	coordinateTolerance = 1e-6

	earthRadiusMeters = 6371000.0
)

var ErrGeoPointIsNotConstructed = errors.New("GeoPoint must be created via NewGeoPoint")

// GeoPoint is an immutable latitude/longitude pair in decimal degrees.
// Out-of-range input is rejected, never clamped.
type GeoPoint struct {
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

func NewGeoPoint(latitude, longitude float64) (GeoPoint, error) {
	if err := errors.Join(
		validateAxis("latitude", latitude, minLatitude, maxLatitude),
		validateAxis("longitude", longitude, minLongitude, maxLongitude),
	); err != nil {
		return GeoPoint{}, err
	}

	return GeoPoint{
		latitude:  latitude,
		longitude: longitude,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// MustNewGeoPoint panics on invalid input. Intended for constants and tests.
func MustNewGeoPoint(latitude, longitude float64) GeoPoint {
	p, err := NewGeoPoint(latitude, longitude)
	if err != nil {
		panic(err)
	}
	return p
}

func validateAxis(name string, value, minValue, maxValue float64) error {
	if math.IsNaN(value) || value < minValue || value > maxValue {
		return errs.NewValueIsOutOfRangeError(name, value, minValue, maxValue)
	}
	return nil
}

func (p GeoPoint) Latitude() float64 {
	return p.latitude
}

func (p GeoPoint) Longitude() float64 {
	return p.longitude
}

func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// IsEqual compares both axes within a tolerance of 1e-6 degrees.
func (p GeoPoint) IsEqual(other GeoPoint) bool {
	return math.Abs(p.latitude-other.latitude) <= coordinateTolerance &&
		math.Abs(p.longitude-other.longitude) <= coordinateTolerance
}

// DistanceTo returns the great-circle (haversine) distance in meters.
func (p GeoPoint) DistanceTo(other GeoPoint) float64 {
	lat1 := p.latitude * math.Pi / 180
	lat2 := other.latitude * math.Pi / 180
	dLat := (other.latitude - p.latitude) * math.Pi / 180
	dLon := (other.longitude - p.longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push a just past 1 for antipodal points.
	a = math.Min(math.Max(a, 0), 1)

	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%g,%g)", p.latitude, p.longitude)
}

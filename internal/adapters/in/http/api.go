package http

import (
	"time"

	"lastmile/internal/core/application/usecases/queries"
	"lastmile/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// dateLayout is the wire format of scheduled delivery dates.
const dateLayout = "2006-01-02"

type GeoPoint struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

func (p GeoPoint) toDomain() (kernel.GeoPoint, error) {
	return kernel.NewGeoPoint(*p.Latitude, *p.Longitude)
}

type OrderItem struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gte=1"`
}

type NewOrder struct {
	ID              *uuid.UUID  `json:"id"`
	CustomerID      uuid.UUID   `json:"customerId" validate:"required"`
	DeliveryAddress string      `json:"deliveryAddress" validate:"required"`
	Location        *GeoPoint   `json:"location" validate:"required"`
	ScheduledDate   string      `json:"scheduledDate" validate:"required,datetime=2006-01-02"`
	Items           []OrderItem `json:"items" validate:"dive"`
}

type Reschedule struct {
	ScheduledDate string `json:"scheduledDate" validate:"required,datetime=2006-01-02"`
}

type Incident struct {
	Kind        string `json:"kind" validate:"required"`
	Description string `json:"description"`
}

// DriverAssignment clears the driver when DriverID is null.
type DriverAssignment struct {
	DriverID *uuid.UUID `json:"driverId"`
}

type NewDeliveryZone struct {
	ID       *uuid.UUID `json:"id"`
	Code     string     `json:"code" validate:"required"`
	Name     string     `json:"name" validate:"required"`
	Boundary []GeoPoint `json:"boundary" validate:"required,min=3,dive"`
	DriverID *uuid.UUID `json:"driverId"`
}

type Created struct {
	ID string `json:"id"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func locationOf(p kernel.GeoPoint) Location {
	return Location{Latitude: p.Latitude(), Longitude: p.Longitude()}
}

type OrderSummary struct {
	ID               string   `json:"id"`
	CustomerID       string   `json:"customerId"`
	RouteID          *string  `json:"routeId"`
	DeliverySequence *int     `json:"deliverySequence"`
	Status           string   `json:"status"`
	ScheduledDate    string   `json:"scheduledDate"`
	DeliveryAddress  string   `json:"deliveryAddress"`
	Location         Location `json:"location"`
}

func orderSummaryOf(o queries.GetBatchOrdersQueryResponse) OrderSummary {
	return OrderSummary{
		ID:               o.ID.String(),
		CustomerID:       o.CustomerID.String(),
		RouteID:          optionalID(o.RouteID),
		DeliverySequence: o.DeliverySequence,
		Status:           o.Status,
		ScheduledDate:    o.ScheduledDeliveryDate.Format(dateLayout),
		DeliveryAddress:  o.DeliveryAddress,
		Location:         locationOf(o.Location),
	}
}

type RouteStop struct {
	OrderID         string   `json:"orderId"`
	Sequence        int      `json:"sequence"`
	Status          string   `json:"status"`
	DeliveryAddress string   `json:"deliveryAddress"`
	Location        Location `json:"location"`
}

type RouteDetails struct {
	ID             string      `json:"id"`
	BatchID        string      `json:"batchId"`
	DeliveryZoneID string      `json:"deliveryZoneId"`
	DriverID       *string     `json:"driverId"`
	Status         string      `json:"status"`
	Origin         Location    `json:"origin"`
	CreatedAt      time.Time   `json:"createdAt"`
	StartedAt      *time.Time  `json:"startedAt"`
	CompletedAt    *time.Time  `json:"completedAt"`
	Stops          []RouteStop `json:"stops"`
}

func routeDetailsOf(r queries.GetRouteDetailsQueryResponse) RouteDetails {
	stops := make([]RouteStop, 0, len(r.Stops))
	for _, s := range r.Stops {
		stops = append(stops, RouteStop{
			OrderID:         s.OrderID.String(),
			Sequence:        s.Sequence,
			Status:          s.Status,
			DeliveryAddress: s.DeliveryAddress,
			Location:        locationOf(s.Location),
		})
	}

	return RouteDetails{
		ID:             r.ID.String(),
		BatchID:        r.BatchID.String(),
		DeliveryZoneID: r.DeliveryZoneID.String(),
		DriverID:       optionalID(r.DriverID),
		Status:         r.Status,
		Origin:         locationOf(r.Origin),
		CreatedAt:      r.CreatedAt,
		StartedAt:      r.StartedAt,
		CompletedAt:    r.CompletedAt,
		Stops:          stops,
	}
}

func optionalID(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// domainID converts a wire id, generating a fresh one when absent.
func domainID(id *uuid.UUID) (kernel.UUID, error) {
	if id == nil {
		return kernel.NewUUID(), nil
	}
	return kernel.UUIDFromBytes(id[:])
}

func optionalDomainID(id *uuid.UUID) (*kernel.UUID, error) {
	return kernel.UUIDFromNullable(id)
}

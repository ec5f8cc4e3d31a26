package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/route"
	"lastmile/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetRouteDetailsQueryHandler reads a route row and the orders assigned to it.
type GetRouteDetailsQueryHandler struct {
	db *gorm.DB
}

func NewGetRouteDetailsQueryHandler(db *gorm.DB) GetRouteDetailsQueryHandler {
	return GetRouteDetailsQueryHandler{db: db}
}

// Handle returns ObjectNotFoundError when the route does not exist.
// Stops are sorted by delivery sequence.
func (h GetRouteDetailsQueryHandler) Handle(
	ctx context.Context,
	query GetRouteDetailsQuery,
) (GetRouteDetailsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetRouteDetailsQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)

	details, err := h.readRoute(db, query.RouteID())
	if err != nil {
		return GetRouteDetailsQueryResponse{}, err
	}

	stops, err := h.readStops(db, query.RouteID())
	if err != nil {
		return GetRouteDetailsQueryResponse{}, err
	}
	details.Stops = stops

	return details, nil
}

func (h GetRouteDetailsQueryHandler) readRoute(db *gorm.DB, routeID kernel.UUID) (GetRouteDetailsQueryResponse, error) {
	var (
		resp                 GetRouteDetailsQueryResponse
		id, batchID, zoneID  uuid.UUID
		driverID             *uuid.UUID
		status               int
		originLat, originLon float64
		startedAt            sql.NullTime
		completedAt          sql.NullTime
	)

	err := db.Raw(`
		SELECT
			id,
			batch_id,
			delivery_zone_id,
			driver_id,
			status,
			origin_latitude,
			origin_longitude,
			created_at,
			started_at,
			completed_at
		FROM routes
		WHERE id = ?
	`, routeID).Row().Scan(
		&id,
		&batchID,
		&zoneID,
		&driverID,
		&status,
		&originLat,
		&originLon,
		&resp.CreatedAt,
		&startedAt,
		&completedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetRouteDetailsQueryResponse{}, errs.NewObjectNotFoundError("route", routeID)
	}
	if err != nil {
		return GetRouteDetailsQueryResponse{}, err
	}

	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetRouteDetailsQueryResponse{}, err
	}
	if resp.BatchID, err = kernel.UUIDFromBytes(batchID[:]); err != nil {
		return GetRouteDetailsQueryResponse{}, err
	}
	if resp.DeliveryZoneID, err = kernel.UUIDFromBytes(zoneID[:]); err != nil {
		return GetRouteDetailsQueryResponse{}, err
	}
	if resp.DriverID, err = kernel.UUIDFromNullable(driverID); err != nil {
		return GetRouteDetailsQueryResponse{}, err
	}
	if resp.Origin, err = kernel.NewGeoPoint(originLat, originLon); err != nil {
		return GetRouteDetailsQueryResponse{}, err
	}

	resp.Status = route.Status(status).String()
	resp.CreatedAt = resp.CreatedAt.UTC()
	resp.StartedAt = nullTime(startedAt)
	resp.CompletedAt = nullTime(completedAt)

	return resp, nil
}

func (h GetRouteDetailsQueryHandler) readStops(db *gorm.DB, routeID kernel.UUID) ([]RouteStop, error) {
	stops := make([]RouteStop, 0)

	rows, err := db.Raw(`
		SELECT
			id,
			delivery_sequence,
			status,
			delivery_address,
			location_latitude,
			location_longitude
		FROM orders
		WHERE route_id = ?
		ORDER BY delivery_sequence, id
	`, routeID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			stop     RouteStop
			id       uuid.UUID
			sequence sql.NullInt64
			status   int
			lat, lon float64
		)

		if err = rows.Scan(&id, &sequence, &status, &stop.DeliveryAddress, &lat, &lon); err != nil {
			return nil, err
		}

		if stop.OrderID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if stop.Location, err = kernel.NewGeoPoint(lat, lon); err != nil {
			return nil, err
		}
		stop.Sequence = int(sequence.Int64)
		stop.Status = order.Status(status).String()

		stops = append(stops, stop)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return stops, nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	u := t.Time.UTC()
	return &u
}

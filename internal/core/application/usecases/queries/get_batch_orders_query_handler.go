package queries

import (
	"context"
	"database/sql"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type GetBatchOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetBatchOrdersQueryHandler(db *gorm.DB) GetBatchOrdersQueryHandler {
	return GetBatchOrdersQueryHandler{db: db}
}

// Handle returns the matching orders sorted by creation time. An unknown batch
// yields an empty slice.
func (h GetBatchOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetBatchOrdersQuery,
) ([]GetBatchOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sqlQuery := `
		SELECT
			id,
			customer_id,
			route_id,
			delivery_sequence,
			status,
			scheduled_delivery_date,
			delivery_address,
			location_latitude,
			location_longitude
		FROM orders
		WHERE batch_id = ?`
	args := []any{query.BatchID()}

	if statuses := query.Statuses(); len(statuses) > 0 {
		codes := make([]int64, 0, len(statuses))
		for _, s := range statuses {
			codes = append(codes, int64(s))
		}
		sqlQuery += " AND status = ANY(?)"
		args = append(args, pq.Array(codes))
	}
	sqlQuery += " ORDER BY created_at, id"

	rows, err := h.db.WithContext(ctx).Raw(sqlQuery, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetBatchOrdersQueryResponse, 0)
	for rows.Next() {
		var (
			resp           GetBatchOrdersQueryResponse
			id, customerID uuid.UUID
			routeID        *uuid.UUID
			sequence       sql.NullInt64
			status         int
			lat, lon       float64
		)

		err = rows.Scan(
			&id,
			&customerID,
			&routeID,
			&sequence,
			&status,
			&resp.ScheduledDeliveryDate,
			&resp.DeliveryAddress,
			&lat,
			&lon,
		)
		if err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if resp.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
			return nil, err
		}
		if resp.RouteID, err = kernel.UUIDFromNullable(routeID); err != nil {
			return nil, err
		}
		if resp.Location, err = kernel.NewGeoPoint(lat, lon); err != nil {
			return nil, err
		}
		if sequence.Valid {
			seq := int(sequence.Int64)
			resp.DeliverySequence = &seq
		}
		resp.Status = order.Status(status).String()
		resp.ScheduledDeliveryDate = resp.ScheduledDeliveryDate.UTC()

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

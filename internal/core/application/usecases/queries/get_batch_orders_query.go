package queries

import (
	"errors"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/pkg/guard"
)

var (
	ErrGetBatchOrdersQueryIsNotConstructed = errors.New(
		"GetBatchOrdersQuery must be created via NewGetBatchOrdersQuery constructor",
	)
)

// GetBatchOrdersQuery lists the orders of a batch, optionally restricted to
// some statuses. An empty status list means every status.
//
// Example:
//
//	query, err := NewGetBatchOrdersQuery(batchID, order.Pending, order.InTransit)
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
type GetBatchOrdersQuery struct {
	batchID  kernel.UUID
	statuses []order.Status
	guard    guard.ConstructorGuard
}

func NewGetBatchOrdersQuery(batchID kernel.UUID, statuses ...order.Status) (GetBatchOrdersQuery, error) {
	errList := []error{batchID.Validate()}
	for _, s := range statuses {
		errList = append(errList, s.Validate())
	}
	if err := errors.Join(errList...); err != nil {
		return GetBatchOrdersQuery{}, err
	}

	return GetBatchOrdersQuery{
		batchID:  batchID,
		statuses: append([]order.Status(nil), statuses...),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q GetBatchOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetBatchOrdersQueryIsNotConstructed)
}

func (q GetBatchOrdersQuery) BatchID() kernel.UUID {
	return q.batchID
}

func (q GetBatchOrdersQuery) Statuses() []order.Status {
	return append([]order.Status(nil), q.statuses...)
}

// GetBatchOrdersQueryResponse is the list view of an order.
type GetBatchOrdersQueryResponse struct {
	ID                    kernel.UUID
	CustomerID            kernel.UUID
	RouteID               *kernel.UUID
	DeliverySequence      *int
	Status                string
	ScheduledDeliveryDate time.Time
	DeliveryAddress       string
	Location              kernel.GeoPoint
}

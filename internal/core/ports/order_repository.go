package ports

import (
	"context"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
)

type OrderRepository interface {
	// Add persists a new order aggregate together with its items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order. It fails with
	// errs.VersionIsInvalidError when the stored version no longer matches
	// the version the aggregate was loaded with.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id, or errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByBatchID returns every order of a batch, oldest first.
	GetByBatchID(ctx context.Context, batchID kernel.UUID) ([]*order.Order, error)

	// GetByRouteID returns the orders assigned to a route in delivery sequence.
	GetByRouteID(ctx context.Context, routeID kernel.UUID) ([]*order.Order, error)
}

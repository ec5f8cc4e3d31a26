package ports

import (
	"context"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/route"
)

type RouteRepository interface {
	Add(ctx context.Context, aggregate *route.Route) error

	// Update is guarded by the aggregate version like OrderRepository.Update.
	Update(ctx context.Context, aggregate *route.Route) error

	Get(ctx context.Context, id kernel.UUID) (*route.Route, error)
	GetByBatchID(ctx context.Context, batchID kernel.UUID) ([]*route.Route, error)
}

package ports

import (
	"context"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/zone"
)

type DeliveryZoneRepository interface {
	Add(ctx context.Context, aggregate *zone.DeliveryZone) error
	Update(ctx context.Context, aggregate *zone.DeliveryZone) error
	Remove(ctx context.Context, id kernel.UUID) error
	Get(ctx context.Context, id kernel.UUID) (*zone.DeliveryZone, error)

	// GetByCode returns errs.ObjectNotFoundError when no zone uses code.
	GetByCode(ctx context.Context, code string) (*zone.DeliveryZone, error)

	// GetAll returns every zone ordered by code. Route building assigns
	// orders to the first containing zone in this order.
	GetAll(ctx context.Context) ([]*zone.DeliveryZone, error)
}

package ports

import (
	"context"

	"lastmile/internal/core/domain/model/batch"
	"lastmile/internal/core/domain/model/kernel"
)

type BatchRepository interface {
	Add(ctx context.Context, aggregate *batch.Batch) error
	Update(ctx context.Context, aggregate *batch.Batch) error
	Get(ctx context.Context, id kernel.UUID) (*batch.Batch, error)

	// GetOpen returns the currently open batch, or errs.ObjectNotFoundError when none is open.
	GetOpen(ctx context.Context) (*batch.Batch, error)
}

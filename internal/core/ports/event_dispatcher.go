package ports

import (
	"context"

	"lastmile/internal/core/domain/model/kernel"
)

// EventDispatcher delivers committed domain events to in-process handlers.
type EventDispatcher interface {
	Dispatch(ctx context.Context, events []kernel.DomainEvent) error
}

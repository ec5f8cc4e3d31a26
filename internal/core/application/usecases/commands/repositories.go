// Package commands contains business operations that modify system state.
// Every handler follows the same shape: validate the command, open a unit of
// work, load and change aggregates, commit. Domain events recorded by the
// changed aggregates are dispatched by the unit of work after commit.
package commands

import (
	"context"

	"lastmile/internal/core/ports"
)

// Unit of Work interfaces narrowed to the repositories each handler touches.
// ports.UnitOfWork satisfies all of them.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	BatchRepoFactory interface {
		BatchRepository() ports.BatchRepository
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	RouteRepoFactory interface {
		RouteRepository() ports.RouteRepository
	}

	DeliveryZoneRepoFactory interface {
		DeliveryZoneRepository() ports.DeliveryZoneRepository
	}

	// OrderUoW manages transactions for operations on a single order.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// OrderingUoW spans the open batch and the order being attached to it.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   open, err := uow.BatchRepository().GetOpen(ctx)
	//   // ... create the order, count it on the batch
	//
	//   err = uow.Commit(ctx)
	OrderingUoW interface {
		TxManager
		BatchRepoFactory
		OrderRepoFactory
	}

	OrderingUoWFactory interface {
		Create() OrderingUoW
	}

	BatchUoW interface {
		TxManager
		BatchRepoFactory
	}

	BatchUoWFactory interface {
		Create() BatchUoW
	}

	RouteUoW interface {
		TxManager
		RouteRepoFactory
	}

	RouteUoWFactory interface {
		Create() RouteUoW
	}

	DeliveryZoneUoW interface {
		TxManager
		DeliveryZoneRepoFactory
	}

	DeliveryZoneUoWFactory interface {
		Create() DeliveryZoneUoW
	}
)

package ports

import (
	"context"
)

type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction and then dispatches the domain
	// events recorded by every aggregate added or updated through it.
	// Returns error if no active transaction or if commit fails. Event handler
	// failures are logged, not returned: the transaction is already committed.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction and forgets tracked aggregates.
	Rollback(ctx context.Context) error

	BatchRepository() BatchRepository
	OrderRepository() OrderRepository
	RouteRepository() RouteRepository
	DeliveryZoneRepository() DeliveryZoneRepository
}

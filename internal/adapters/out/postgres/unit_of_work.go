// Package postgres provides the GORM-based Unit of Work used by every command
// handler and event reaction.
//
// A unit of work wraps one database transaction. Repositories obtained from it
// run inside that transaction and register every aggregate they add or update.
// After a successful commit the unit of work drains the domain events recorded
// by those aggregates and hands them to the event dispatcher.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	if err := uow.RouteRepository().Update(ctx, r); err != nil {
//	    return err
//	}
//
//	// Commits, then dispatches RouteStartedEvent and friends.
//	return uow.Commit(ctx)
//
// Concurrency Considerations:
//   - Each UnitOfWork instance provides an isolated transaction
//   - Multiple goroutines should use separate UnitOfWork instances
//   - Event handlers open their own units of work; they never share the committing one
package postgres

import (
	"context"
	"log/slog"

	"lastmile/internal/adapters/out/postgres/batchrepo"
	"lastmile/internal/adapters/out/postgres/orderrepo"
	"lastmile/internal/adapters/out/postgres/routerepo"
	"lastmile/internal/adapters/out/postgres/zonerepo"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/ports"

	"gorm.io/gorm"
)

type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one GORM connection
// pool and one event dispatcher.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	dispatcher := events.NewDispatcher(logger, m)
//	factory := NewGormUnitOfWorkFactory(db, dispatcher, logger)
type GormUnitOfWorkFactory struct {
	db         *gorm.DB
	dispatcher ports.EventDispatcher
	logger     *slog.Logger
}

// NewGormUnitOfWorkFactory creates a factory. dispatcher may be nil, in which
// case recorded events are dropped after commit. A nil logger falls back to
// slog.Default.
func NewGormUnitOfWorkFactory(db *gorm.DB, dispatcher ports.EventDispatcher, logger *slog.Logger) *GormUnitOfWorkFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &GormUnitOfWorkFactory{db: db, dispatcher: dispatcher, logger: logger}
}

// Create produces a fresh unit of work with its own transaction state and tracking.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		dispatcher:        f.dispatcher,
		logger:            f.logger,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and the aggregates
// changed within it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	dispatcher        ports.EventDispatcher
	logger            *slog.Logger
	trackedAggregates []trackedAggregate
}

// Begin starts a transaction. Calling Begin on an active unit of work is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit commits the transaction and dispatches the events of tracked aggregates.
//
// Returns gorm.ErrInvalidTransaction without an active transaction or the commit
// error if the commit fails. Once the transaction is committed the state change
// stands, so handler failures are logged and Commit returns nil.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return err
	}

	pending := uow.drainEvents()
	if len(pending) == 0 || uow.dispatcher == nil {
		return nil
	}

	if err = uow.dispatcher.Dispatch(ctx, pending); err != nil {
		uow.logger.ErrorContext(ctx, "event dispatch after commit failed",
			"component", "unit_of_work",
			"events", len(pending),
			"error", err)
	}

	return nil
}

// Rollback discards the transaction and forgets tracked aggregates.
// Returns gorm.ErrInvalidTransaction without an active transaction, which makes
// the deferred Rollback after a successful Commit harmless.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	uow.trackedAggregates = uow.trackedAggregates[:0]
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) BatchRepository() ports.BatchRepository {
	return batchrepo.NewGormBatchRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) RouteRepository() ports.RouteRepository {
	return routerepo.NewGormRouteRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) DeliveryZoneRepository() ports.DeliveryZoneRepository {
	return zonerepo.NewGormDeliveryZoneRepository(uow.conn(), uow)
}

// TrackAggregate registers an aggregate added or updated within this unit of work.
// Repositories call it after a successful write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// conn returns the active transaction, or the pool when none is open.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// drainEvents collects and clears the events of every tracked aggregate in
// tracking order. An aggregate saved twice contributes its events once.
func (uow *GormUnitOfWork) drainEvents() []kernel.DomainEvent {
	seen := make(map[any]struct{}, len(uow.trackedAggregates))
	var pending []kernel.DomainEvent

	for _, tracked := range uow.trackedAggregates {
		if _, dup := seen[tracked.Aggregate]; dup {
			continue
		}
		seen[tracked.Aggregate] = struct{}{}

		source, ok := tracked.Aggregate.(kernel.EventSource)
		if !ok {
			continue
		}
		pending = append(pending, source.DomainEvents()...)
		source.ClearDomainEvents()
	}

	uow.trackedAggregates = uow.trackedAggregates[:0]
	return pending
}

package batch

import (
	"errors"
	"fmt"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var (
	ErrBatchIsNotConstructed   = errors.New("Batch must be created via NewBatch constructor")
	ErrInvalidStatusTransition = errs.NewValidationError("Batch.InvalidStatusTransition", "invalid batch status transition")
	ErrCannotAddOrdersToClosed = errs.NewValidationError("Batch.CannotAddOrdersToClosedBatch", "orders can only be added to an open batch")
	ErrQuantityMustBePositive  = errs.NewValidationError("Batch.QuantityMustBeGreaterThanZero", "quantity must be greater than zero")
)

// Batch accumulates a count of orders while open.
type Batch struct {
	id          kernel.UUID
	totalOrders int
	status      Status
	openedAt    time.Time
	closedAt    *time.Time

	kernel.Versioned
	kernel.EventRecorder
	guard guard.ConstructorGuard
}

// NewBatch opens a batch seeded with totalOrders (usually 0).
func NewBatch(id kernel.UUID, totalOrders int) (*Batch, error) {
	b := &Batch{
		status:   Open,
		openedAt: time.Now().UTC(),
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		b.setID(id),
		b.setTotalOrders(totalOrders),
	); err != nil {
		return nil, err
	}

	return b, nil
}

// RestoreBatch rebuilds a batch from persisted state without recording events.
func RestoreBatch(
	id kernel.UUID,
	totalOrders int,
	status Status,
	openedAt time.Time,
	closedAt *time.Time,
	version int,
) (*Batch, error) {
	b := &Batch{
		openedAt: openedAt,
		closedAt: closedAt,
		guard:    guard.NewConstructorGuard(),
	}
	b.SetVersion(version)

	if err := errors.Join(
		b.setID(id),
		b.setTotalOrders(totalOrders),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	b.status = status

	return b, nil
}

func (b *Batch) Validate() error {
	if b == nil {
		return ErrBatchIsNotConstructed
	}
	return b.guard.Validate(ErrBatchIsNotConstructed)
}

func (b *Batch) ID() kernel.UUID { return b.id }
func (b *Batch) TotalOrders() int { return b.totalOrders }
func (b *Batch) Status() Status { return b.status }
func (b *Batch) OpenedAt() time.Time { return b.openedAt }
func (b *Batch) ClosedAt() *time.Time { return b.closedAt }
func (b *Batch) IsOpen() bool { return b.status == Open }

// AddOrders increments the order count of an open batch.
func (b *Batch) AddOrders(quantity int) error {
	if quantity <= 0 {
		return ErrQuantityMustBePositive.WithMessage("quantity must be greater than zero, got %d", quantity)
	}
	if b.status != Open {
		return ErrCannotAddOrdersToClosed
	}

	b.totalOrders += quantity
	return nil
}

// Close moves the batch to Closed and records BatchClosedEvent.
func (b *Batch) Close() error {
	newStatus, err := b.status.Close()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	b.status = newStatus
	b.closedAt = &now
	b.RecordEvent(newBatchClosedEvent(b))
	return nil
}

func (b *Batch) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	b.id = id
	return nil
}

func (b *Batch) setTotalOrders(total int) error {
	if total < 0 {
		return errs.NewValueIsInvalidErrorWithCause("totalOrders", fmt.Errorf("%d is negative", total))
	}
	b.totalOrders = total
	return nil
}

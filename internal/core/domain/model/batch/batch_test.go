package batch_test

import (
	"testing"
	"time"

	"lastmile/internal/core/domain/model/batch"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBatch(t *testing.T) {
	t.Run("should open an empty batch", func(t *testing.T) {
		id := kernel.NewUUID()

		b, err := batch.NewBatch(id, 0)

		require.NoError(t, err)
		require.NoError(t, b.Validate())
		assert.True(t, b.ID().IsEqual(id))
		assert.Equal(t, batch.Open, b.Status())
		assert.Zero(t, b.TotalOrders())
		assert.Nil(t, b.ClosedAt())
		assert.Empty(t, b.DomainEvents())
	})

	t.Run("should reject a negative seed and an empty id", func(t *testing.T) {
		_, err := batch.NewBatch(kernel.UUID{}, -1)

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestBatch_AddOrders(t *testing.T) {
	t.Run("should accumulate while open", func(t *testing.T) {
		b, _ := batch.NewBatch(kernel.NewUUID(), 2)

		require.NoError(t, b.AddOrders(1))
		require.NoError(t, b.AddOrders(3))

		assert.Equal(t, 6, b.TotalOrders())
	})

	t.Run("should reject non-positive quantity", func(t *testing.T) {
		b, _ := batch.NewBatch(kernel.NewUUID(), 0)

		require.ErrorIs(t, b.AddOrders(0), batch.ErrQuantityMustBePositive)
		assert.Zero(t, b.TotalOrders())
	})

	t.Run("should reject once closed", func(t *testing.T) {
		b, _ := batch.NewBatch(kernel.NewUUID(), 0)
		require.NoError(t, b.Close())

		err := b.AddOrders(1)

		require.ErrorIs(t, err, batch.ErrCannotAddOrdersToClosed)
		assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	})
}

func TestBatch_Close(t *testing.T) {
	t.Run("should close and record BatchClosedEvent", func(t *testing.T) {
		b, _ := batch.NewBatch(kernel.NewUUID(), 0)
		require.NoError(t, b.AddOrders(3))

		require.NoError(t, b.Close())

		assert.Equal(t, batch.Closed, b.Status())
		require.NotNil(t, b.ClosedAt())
		events := b.DomainEvents()
		require.Len(t, events, 1)
		closed, ok := events[0].(batch.BatchClosedEvent)
		require.True(t, ok)
		assert.Equal(t, batch.BatchClosedEventType, closed.EventType())
		assert.True(t, closed.BatchID().IsEqual(b.ID()))
		assert.Equal(t, 3, closed.TotalOrders())
	})

	t.Run("should fail to close twice", func(t *testing.T) {
		b, _ := batch.NewBatch(kernel.NewUUID(), 0)
		require.NoError(t, b.Close())

		err := b.Close()

		require.ErrorIs(t, err, batch.ErrInvalidStatusTransition)
		assert.Contains(t, err.Error(), "Closed")
		assert.Len(t, b.DomainEvents(), 1)
	})
}

func TestRestoreBatch(t *testing.T) {
	closedAt := time.Now().UTC()

	b, err := batch.RestoreBatch(kernel.NewUUID(), 4, batch.Closed, closedAt.Add(-time.Hour), &closedAt, 7)

	require.NoError(t, err)
	assert.Equal(t, batch.Closed, b.Status())
	assert.Equal(t, 7, b.Version())
	assert.Empty(t, b.DomainEvents())

	_, err = batch.RestoreBatch(kernel.NewUUID(), 0, batch.Unknown, closedAt, nil, 0)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

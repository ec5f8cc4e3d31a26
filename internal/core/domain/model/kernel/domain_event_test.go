package kernel_test

import (
	"testing"

	"lastmile/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRecorder(t *testing.T) {
	var r kernel.EventRecorder
	aggregateID := kernel.NewUUID()

	r.RecordEvent(kernel.NewBaseEvent("first", aggregateID))
	r.RecordEvent(kernel.NewBaseEvent("second", aggregateID))

	events := r.DomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "first", events[0].EventType())
	assert.Equal(t, "second", events[1].EventType())
	assert.True(t, events[0].AggregateID().IsEqual(aggregateID))
	assert.False(t, events[0].EventID().IsEqual(events[1].EventID()))
	assert.False(t, events[0].OccurredAt().IsZero())

	r.ClearDomainEvents()

	assert.Empty(t, r.DomainEvents())
}

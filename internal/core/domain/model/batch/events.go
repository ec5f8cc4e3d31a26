package batch

import "lastmile/internal/core/domain/model/kernel"

const BatchClosedEventType = "batch.closed"

// BatchClosedEvent is recorded when an open batch is closed.
type BatchClosedEvent struct {
	kernel.BaseEvent
	totalOrders int
}

func newBatchClosedEvent(b *Batch) BatchClosedEvent {
	return BatchClosedEvent{
		BaseEvent:   kernel.NewBaseEvent(BatchClosedEventType, b.ID()),
		totalOrders: b.TotalOrders(),
	}
}

func (e BatchClosedEvent) BatchID() kernel.UUID {
	return e.AggregateID()
}

func (e BatchClosedEvent) TotalOrders() int {
	return e.totalOrders
}

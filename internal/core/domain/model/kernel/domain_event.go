package kernel

import "time"

// DomainEvent is a fact recorded by an aggregate during a state transition.
// Events are dispatched to in-process handlers after the transition is committed.
type DomainEvent interface {
	EventID() UUID
	EventType() string
	AggregateID() UUID
	OccurredAt() time.Time
}

// EventSource is implemented by aggregates that record domain events.
type EventSource interface {
	DomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseEvent carries the metadata shared by all domain events.
type BaseEvent struct {
	id          UUID
	eventType   string
	aggregateID UUID
	occurredAt  time.Time
}

func NewBaseEvent(eventType string, aggregateID UUID) BaseEvent {
	return BaseEvent{
		id:          NewUUID(),
		eventType:   eventType,
		aggregateID: aggregateID,
		occurredAt:  time.Now().UTC(),
	}
}

func (e BaseEvent) EventID() UUID { return e.id }
func (e BaseEvent) EventType() string { return e.eventType }
func (e BaseEvent) AggregateID() UUID { return e.aggregateID }
func (e BaseEvent) OccurredAt() time.Time { return e.occurredAt }

// EventRecorder is embedded in aggregates to accumulate pending events.
type EventRecorder struct {
	events []DomainEvent
}

func (r *EventRecorder) RecordEvent(event DomainEvent) {
	r.events = append(r.events, event)
}

// DomainEvents returns the pending events in the order they were recorded.
func (r *EventRecorder) DomainEvents() []DomainEvent {
	out := make([]DomainEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *EventRecorder) ClearDomainEvents() {
	r.events = nil
}

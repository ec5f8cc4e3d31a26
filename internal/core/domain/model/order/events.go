package order

import "lastmile/internal/core/domain/model/kernel"

const (
	OrderCancelledEventType        = "order.cancelled"
	OrderDeliveredEventType        = "order.delivered"
	OrderIncidentReportedEventType = "order.incident_reported"
)

// TerminalEvent is implemented by every event recorded when an order reaches a terminal state.
type TerminalEvent interface {
	kernel.DomainEvent
	OrderID() kernel.UUID
	RouteID() *kernel.UUID
}

type terminalEvent struct {
	kernel.BaseEvent
	routeID *kernel.UUID
}

func newTerminalEvent(eventType string, o *Order) terminalEvent {
	return terminalEvent{
		BaseEvent: kernel.NewBaseEvent(eventType, o.ID()),
		routeID:   o.RouteID(),
	}
}

func (e terminalEvent) OrderID() kernel.UUID {
	return e.AggregateID()
}

// RouteID is nil for orders that were never assigned to a route.
func (e terminalEvent) RouteID() *kernel.UUID {
	return e.routeID
}

type OrderCancelledEvent struct {
	terminalEvent
}

type OrderDeliveredEvent struct {
	terminalEvent
	receiverName string
}

func (e OrderDeliveredEvent) ReceiverName() string {
	return e.receiverName
}

type OrderIncidentReportedEvent struct {
	terminalEvent
	kind IncidentKind
}

func (e OrderIncidentReportedEvent) Kind() IncidentKind {
	return e.kind
}

package route

import "lastmile/internal/core/domain/model/kernel"

const (
	RouteStartedEventType   = "route.started"
	RouteCancelledEventType = "route.cancelled"
	RouteCompletedEventType = "route.completed"
)

type RouteStartedEvent struct {
	kernel.BaseEvent
	driverID kernel.UUID
}

func (e RouteStartedEvent) RouteID() kernel.UUID {
	return e.AggregateID()
}

func (e RouteStartedEvent) DriverID() kernel.UUID {
	return e.driverID
}

type RouteCancelledEvent struct {
	kernel.BaseEvent
}

func (e RouteCancelledEvent) RouteID() kernel.UUID {
	return e.AggregateID()
}

type RouteCompletedEvent struct {
	kernel.BaseEvent
}

func (e RouteCompletedEvent) RouteID() kernel.UUID {
	return e.AggregateID()
}

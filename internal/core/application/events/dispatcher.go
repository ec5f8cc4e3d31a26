// Package events routes committed domain events to the in-process handlers
// registered for their type.
package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/metrics"
)

// Handler reacts to one domain event.
type Handler interface {
	Handle(ctx context.Context, event kernel.DomainEvent) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event kernel.DomainEvent) error

func (f HandlerFunc) Handle(ctx context.Context, event kernel.DomainEvent) error {
	return f(ctx, event)
}

// Dispatcher invokes handlers synchronously, in registration order.
// A failing handler never prevents the remaining handlers from running;
// all failures are returned joined.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewDispatcher(logger *slog.Logger, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]Handler),
		logger:   logger.With("component", "event-dispatcher"),
		metrics:  m,
	}
}

func (d *Dispatcher) Register(eventType string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
}

func (d *Dispatcher) Dispatch(ctx context.Context, events []kernel.DomainEvent) error {
	var errs []error
	for _, event := range events {
		d.mu.RLock()
		handlers := d.handlers[event.EventType()]
		d.mu.RUnlock()

		if len(handlers) == 0 {
			d.logger.DebugContext(ctx, "No handlers registered", "event_type", event.EventType())
			continue
		}

		for _, h := range handlers {
			if err := d.invoke(ctx, h, event); err != nil {
				d.logger.ErrorContext(ctx, "Event handler failed",
					"event_type", event.EventType(),
					"aggregate_id", event.AggregateID().String(),
					"error", err,
				)
				d.metrics.RecordEventDispatched(event.EventType(), false)
				errs = append(errs, fmt.Errorf("handle %s: %w", event.EventType(), err))
				continue
			}
			d.metrics.RecordEventDispatched(event.EventType(), true)
		}
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) invoke(ctx context.Context, h Handler, event kernel.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h.Handle(ctx, event)
}

// Package metrics exposes the Prometheus collectors of the service.
//
// All Record* methods are safe to call on a nil *Metrics, which lets tests and
// optional components skip instrumentation without branching.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lastmile"

type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	RoutesBuilt     prometheus.Counter
	ZonesSkipped    *prometheus.CounterVec
	OrdersUnmatched prometheus.Counter
	RoutesCompleted prometheus.Counter

	EventsDispatched *prometheus.CounterVec

	OptimizerDuration   *prometheus.HistogramVec
	CircuitBreakerState *prometheus.GaugeVec
}

// New builds a Metrics instance with its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	m.RoutesBuilt = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "routes_built_total",
		Help:      "Routes created from closed batches",
	})

	m.ZonesSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "zones_skipped_total",
			Help:      "Zone groups that could not be routed",
		},
		[]string{"reason"},
	)

	m.OrdersUnmatched = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_unmatched_total",
		Help:      "Orders of closed batches that fell outside every delivery zone",
	})

	m.RoutesCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "routes_completed_total",
		Help:      "Routes completed because all their orders reached a terminal state",
	})

	m.EventsDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "domain_events_dispatched_total",
			Help:      "Domain events delivered to in-process handlers",
		},
		[]string{"event_type", "status"},
	)

	m.OptimizerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "route_optimizer_duration_seconds",
			Help:      "Route optimizer call duration in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"optimizer", "status"},
	)

	m.CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.RoutesBuilt,
		m.ZonesSkipped,
		m.OrdersUnmatched,
		m.RoutesCompleted,
		m.EventsDispatched,
		m.OptimizerDuration,
		m.CircuitBreakerState,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) RecordRouteBuilt() {
	if m == nil {
		return
	}
	m.RoutesBuilt.Inc()
}

func (m *Metrics) RecordZoneSkipped(reason string) {
	if m == nil {
		return
	}
	m.ZonesSkipped.WithLabelValues(reason).Inc()
}

func (m *Metrics) RecordOrdersUnmatched(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.OrdersUnmatched.Add(float64(count))
}

func (m *Metrics) RecordRouteCompleted() {
	if m == nil {
		return
	}
	m.RoutesCompleted.Inc()
}

func (m *Metrics) RecordEventDispatched(eventType string, success bool) {
	if m == nil {
		return
	}
	m.EventsDispatched.WithLabelValues(eventType, statusLabel(success)).Inc()
}

func (m *Metrics) RecordOptimizerCall(optimizer string, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.OptimizerDuration.WithLabelValues(optimizer, statusLabel(success)).Observe(duration.Seconds())
}

func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// Package routing provides the route optimizer adapters: a client for the
// OpenRouteService optimization endpoint and a local nearest neighbour
// heuristic for development and offline use.
package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/ports"
	"lastmile/internal/pkg/metrics"

	"github.com/sony/gobreaker"
)

const orsName = "ors"

var ErrOptimizerUnavailable = errors.New("route optimizer unavailable")

// ORSConfig configures the OpenRouteService client. Zero values fall back to
// the defaults of DefaultORSConfig.
type ORSConfig struct {
	BaseURL        string
	APIKey         string
	Profile        string
	HTTPTimeout    time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration

	// Circuit breaker: trips after BreakerFailures consecutive failures and
	// probes again after BreakerTimeout.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

func DefaultORSConfig() ORSConfig {
	return ORSConfig{
		BaseURL:         "https://api.openrouteservice.org",
		Profile:         "driving-car",
		HTTPTimeout:     30 * time.Second,
		MaxAttempts:     4,
		InitialBackoff:  200 * time.Millisecond,
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
	}
}

func (c ORSConfig) withDefaults() ORSConfig {
	d := DefaultORSConfig()
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Profile == "" {
		c.Profile = d.Profile
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = d.HTTPTimeout
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = d.InitialBackoff
	}
	if c.BreakerFailures == 0 {
		c.BreakerFailures = d.BreakerFailures
	}
	if c.BreakerTimeout <= 0 {
		c.BreakerTimeout = d.BreakerTimeout
	}
	return c
}

// ORSOptimizer solves the single-vehicle round trip with the OpenRouteService
// /optimization endpoint. The vehicle starts and ends at the origin and every
// waypoint becomes one job.
type ORSOptimizer struct {
	cfg     ORSConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
	metrics *metrics.Metrics
}

var _ ports.RouteOptimizer = (*ORSOptimizer)(nil)

func NewORSOptimizer(cfg ORSConfig, logger *slog.Logger, m *metrics.Metrics) *ORSOptimizer {
	cfg = cfg.withDefaults()
	logger = logger.With("component", "ors_optimizer")

	o := &ORSOptimizer{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.HTTPTimeout},
		logger:  logger,
		metrics: m,
	}

	o.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        orsName,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		// Rejected input says nothing about the health of the service.
		IsSuccessful: func(err error) bool {
			return err == nil || (!retryable(err) && !errors.Is(err, context.DeadlineExceeded))
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
			m.SetCircuitBreakerState(name, int(to))
		},
	})
	m.SetCircuitBreakerState(orsName, int(gobreaker.StateClosed))

	return o
}

type orsRequest struct {
	Jobs     []orsJob     `json:"jobs"`
	Vehicles []orsVehicle `json:"vehicles"`
}

type orsJob struct {
	ID       int        `json:"id"`
	Location [2]float64 `json:"location"`
}

type orsVehicle struct {
	ID      int        `json:"id"`
	Profile string     `json:"profile"`
	Start   [2]float64 `json:"start"`
	End     [2]float64 `json:"end"`
}

type orsResponse struct {
	Code       int             `json:"code"`
	Routes     []orsRoute      `json:"routes"`
	Unassigned []orsUnassigned `json:"unassigned"`
}

type orsUnassigned struct {
	ID int `json:"id"`
}

type orsRoute struct {
	Vehicle int       `json:"vehicle"`
	Steps   []orsStep `json:"steps"`
}

// orsStep carries the job id in "id"; older servers also send it as "job".
type orsStep struct {
	Type string `json:"type"`
	ID   *int   `json:"id"`
	Job  *int   `json:"job"`
}

// lonLat is the coordinate order the ORS API expects.
func lonLat(p kernel.GeoPoint) [2]float64 {
	return [2]float64{p.Longitude(), p.Latitude()}
}

// Optimize returns ErrNotEnoughWaypoints for fewer than two waypoints and
// ErrOptimizerUnavailable while the circuit breaker is open.
func (o *ORSOptimizer) Optimize(
	ctx context.Context,
	origin kernel.GeoPoint,
	waypoints []ports.Waypoint,
) ([]ports.SequencedWaypoint, error) {
	if len(waypoints) < 2 {
		return nil, ports.ErrNotEnoughWaypoints
	}

	start := time.Now()
	result, err := o.breaker.Execute(func() (any, error) {
		return o.optimize(ctx, origin, waypoints)
	})
	o.metrics.RecordOptimizerCall(orsName, err == nil, time.Since(start))

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		o.logger.Warn("optimizer call rejected by circuit breaker", "state", o.breaker.State().String())
		return nil, fmt.Errorf("%w: %w", ErrOptimizerUnavailable, err)
	}
	if err != nil {
		return nil, err
	}

	sequenced, _ := result.([]ports.SequencedWaypoint)
	return sequenced, nil
}

func (o *ORSOptimizer) optimize(
	ctx context.Context,
	origin kernel.GeoPoint,
	waypoints []ports.Waypoint,
) ([]ports.SequencedWaypoint, error) {
	body := orsRequest{
		Jobs: make([]orsJob, 0, len(waypoints)),
		Vehicles: []orsVehicle{{
			ID:      1,
			Profile: o.cfg.Profile,
			Start:   lonLat(origin),
			End:     lonLat(origin),
		}},
	}
	// Job ids are 1-based indexes into waypoints.
	for i, w := range waypoints {
		body.Jobs = append(body.Jobs, orsJob{ID: i + 1, Location: lonLat(w.Location)})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal optimization request: %w", err)
	}

	endpoint := o.cfg.BaseURL + "/optimization"
	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("optimization request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded orsResponse
	if err = json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode optimization response: %w", err)
	}

	return sequenceFromResponse(decoded, waypoints)
}

// sequenceFromResponse maps the job steps of the single route back to
// waypoints and checks they form a permutation of the input.
func sequenceFromResponse(resp orsResponse, waypoints []ports.Waypoint) ([]ports.SequencedWaypoint, error) {
	if resp.Code != 0 {
		return nil, fmt.Errorf("optimization failed with code %d", resp.Code)
	}
	if len(resp.Unassigned) > 0 {
		return nil, fmt.Errorf("optimization left %d waypoints unassigned", len(resp.Unassigned))
	}
	if len(resp.Routes) != 1 {
		return nil, fmt.Errorf("expected 1 route, got %d", len(resp.Routes))
	}

	seen := make(map[int]bool, len(waypoints))
	sequenced := make([]ports.SequencedWaypoint, 0, len(waypoints))

	for _, step := range resp.Routes[0].Steps {
		if step.Type != "job" {
			continue
		}

		jobID := step.ID
		if jobID == nil {
			jobID = step.Job
		}
		if jobID == nil {
			return nil, errors.New("job step without id")
		}
		if *jobID < 1 || *jobID > len(waypoints) {
			return nil, fmt.Errorf("unknown job id %d", *jobID)
		}
		if seen[*jobID] {
			return nil, fmt.Errorf("job id %d visited twice", *jobID)
		}
		seen[*jobID] = true

		sequenced = append(sequenced, ports.SequencedWaypoint{
			ID:       waypoints[*jobID-1].ID,
			Sequence: len(sequenced) + 1,
		})
	}

	if len(sequenced) != len(waypoints) {
		return nil, fmt.Errorf("route visits %d of %d waypoints", len(sequenced), len(waypoints))
	}

	return sequenced, nil
}

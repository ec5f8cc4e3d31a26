package eventhandlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"lastmile/internal/core/domain/model/batch"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/route"
	"lastmile/internal/core/domain/services"
	"lastmile/internal/core/ports"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/metrics"
)

var ErrInvalidOptimizerResult = errs.NewProblemError(
	"RouteOptimizer.InvalidResult", "optimizer result is not a permutation of the submitted waypoints")

const (
	skipReasonOptimizer  = "optimizer"
	skipReasonContract   = "invalid_result"
	skipReasonAssignment = "assignment"
)

// RouteBuildingConfig holds the route building parameters.
type RouteBuildingConfig struct {
	// Depot is the origin and implicit end of every route.
	Depot kernel.GeoPoint
	// OptimizerTimeout bounds each optimizer call. Zero means no extra timeout.
	OptimizerTimeout time.Duration
}

// RouteBuildingResult summarizes one run of the route building reaction.
type RouteBuildingResult struct {
	Routes          []*route.Route
	SkippedZones    []kernel.UUID
	UnmatchedOrders int
}

// RouteBuildingHandler reacts to BatchClosedEvent by partitioning the batch's
// orders across delivery zones and creating one route per zone.
//
// A zone whose optimization fails is skipped and its orders stay unassigned;
// other zones are unaffected. All routes and assignments of one batch are
// committed together.
type RouteBuildingHandler struct {
	uowFactory  ports.UnitOfWorkFactory
	optimizer   ports.RouteOptimizer
	partitioner services.ZonePartitioner
	config      RouteBuildingConfig
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

func NewRouteBuildingHandler(
	uowFactory ports.UnitOfWorkFactory,
	optimizer ports.RouteOptimizer,
	config RouteBuildingConfig,
	logger *slog.Logger,
	m *metrics.Metrics,
) *RouteBuildingHandler {
	return &RouteBuildingHandler{
		uowFactory:  uowFactory,
		optimizer:   optimizer,
		partitioner: services.NewZonePartitioner(),
		config:      config,
		logger:      logger.With("component", "route-building"),
		metrics:     m,
	}
}

func (h *RouteBuildingHandler) Handle(ctx context.Context, event kernel.DomainEvent) error {
	closed, ok := event.(batch.BatchClosedEvent)
	if !ok {
		return fmt.Errorf("route building: unexpected event %T", event)
	}

	_, err := h.BuildRoutes(ctx, closed.BatchID())
	return err
}

// BuildRoutes runs the reaction for one batch.
func (h *RouteBuildingHandler) BuildRoutes(ctx context.Context, batchID kernel.UUID) (RouteBuildingResult, error) {
	var result RouteBuildingResult
	logger := h.logger.With("batch_id", batchID.String())

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return result, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	routeRepo := uow.RouteRepository()

	orders, err := orderRepo.GetByBatchID(ctx, batchID)
	if err != nil {
		return result, err
	}

	routable := routableOrders(orders)
	if len(routable) == 0 {
		logger.InfoContext(ctx, "Batch closed without routable orders", "orders", len(orders))
		return result, nil
	}

	zones, err := uow.DeliveryZoneRepository().GetAll(ctx)
	if err != nil {
		return result, err
	}

	partition := h.partitioner.Partition(routable, zones)
	result.UnmatchedOrders = len(partition.Unmatched)
	if result.UnmatchedOrders > 0 {
		logger.WarnContext(ctx, "Orders outside every delivery zone were not routed",
			"unmatched", result.UnmatchedOrders)
		h.metrics.RecordOrdersUnmatched(result.UnmatchedOrders)
	}

	for _, group := range partition.Groups {
		zoneLogger := logger.With("zone_id", group.Zone.ID().String(), "zone_code", group.Zone.Code())

		r, reason, err := h.buildZoneRoute(ctx, batchID, group)
		if err != nil {
			zoneLogger.WarnContext(ctx, "Zone skipped", "reason", reason, "orders", len(group.Orders), "error", err)
			h.metrics.RecordZoneSkipped(reason)
			result.SkippedZones = append(result.SkippedZones, group.Zone.ID())
			continue
		}

		if err = routeRepo.Add(ctx, r); err != nil {
			return RouteBuildingResult{}, err
		}
		for _, o := range group.Orders {
			if err = orderRepo.Update(ctx, o); err != nil {
				return RouteBuildingResult{}, err
			}
		}

		zoneLogger.InfoContext(ctx, "Route built", "route_id", r.ID().String(), "orders", len(group.Orders))
		result.Routes = append(result.Routes, r)
	}

	if err = uow.Commit(ctx); err != nil {
		return RouteBuildingResult{}, err
	}

	for range result.Routes {
		h.metrics.RecordRouteBuilt()
	}
	return result, nil
}

// buildZoneRoute optimizes one zone group and assigns its orders to a new route.
// On error, the returned reason labels the failure; nothing has been persisted.
func (h *RouteBuildingHandler) buildZoneRoute(
	ctx context.Context,
	batchID kernel.UUID,
	group services.ZoneGroup,
) (*route.Route, string, error) {
	waypoints := make([]ports.Waypoint, 0, len(group.Orders))
	byID := make(map[kernel.UUID]*order.Order, len(group.Orders))
	for _, o := range group.Orders {
		waypoints = append(waypoints, ports.Waypoint{ID: o.ID(), Location: o.DeliveryLocation()})
		byID[o.ID()] = o
	}

	sequenced, err := h.optimize(ctx, waypoints)
	if err != nil {
		return nil, skipReasonOptimizer, err
	}
	if err = validatePermutation(byID, sequenced); err != nil {
		return nil, skipReasonContract, err
	}

	r, err := route.NewRoute(kernel.NewUUID(), batchID, group.Zone.ID(), group.Zone.DriverID(), h.config.Depot)
	if err != nil {
		return nil, skipReasonAssignment, err
	}

	for _, s := range sequenced {
		if err = byID[s.ID].AssignToRoute(r.ID(), s.Sequence); err != nil {
			return nil, skipReasonAssignment, fmt.Errorf("order %s: %w", s.ID, err)
		}
	}

	return r, "", nil
}

func (h *RouteBuildingHandler) optimize(ctx context.Context, waypoints []ports.Waypoint) ([]ports.SequencedWaypoint, error) {
	if h.config.OptimizerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.OptimizerTimeout)
		defer cancel()
	}
	return h.optimizer.Optimize(ctx, h.config.Depot, waypoints)
}

// routableOrders keeps pending orders that are not yet on a route.
func routableOrders(orders []*order.Order) []*order.Order {
	out := make([]*order.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status() == order.Pending && o.RouteID() == nil {
			out = append(out, o)
		}
	}
	return out
}

func validatePermutation(submitted map[kernel.UUID]*order.Order, sequenced []ports.SequencedWaypoint) error {
	if len(sequenced) != len(submitted) {
		return ErrInvalidOptimizerResult.WithMessage(
			"optimizer returned %d waypoints for %d submitted", len(sequenced), len(submitted))
	}

	seenIDs := make(map[kernel.UUID]struct{}, len(sequenced))
	seenSeq := make(map[int]struct{}, len(sequenced))
	var problems []error
	for _, s := range sequenced {
		if _, ok := submitted[s.ID]; !ok {
			problems = append(problems, fmt.Errorf("unknown waypoint %s", s.ID))
		}
		if _, dup := seenIDs[s.ID]; dup {
			problems = append(problems, fmt.Errorf("duplicate waypoint %s", s.ID))
		}
		if s.Sequence < 1 || s.Sequence > len(sequenced) {
			problems = append(problems, fmt.Errorf("sequence %d out of range", s.Sequence))
		}
		if _, dup := seenSeq[s.Sequence]; dup {
			problems = append(problems, fmt.Errorf("duplicate sequence %d", s.Sequence))
		}
		seenIDs[s.ID] = struct{}{}
		seenSeq[s.Sequence] = struct{}{}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidOptimizerResult, errors.Join(problems...))
	}
	return nil
}

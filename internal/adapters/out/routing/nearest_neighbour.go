package routing

import (
	"context"
	"math"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/ports"
)

// NearestNeighbourOptimizer orders waypoints greedily: from the current
// position it always moves to the closest unvisited waypoint by great-circle
// distance. Ties go to the earlier waypoint, so results are deterministic.
// It does not attempt global optimization.
type NearestNeighbourOptimizer struct{}

var _ ports.RouteOptimizer = NearestNeighbourOptimizer{}

func NewNearestNeighbourOptimizer() NearestNeighbourOptimizer {
	return NearestNeighbourOptimizer{}
}

func (NearestNeighbourOptimizer) Optimize(
	ctx context.Context,
	origin kernel.GeoPoint,
	waypoints []ports.Waypoint,
) ([]ports.SequencedWaypoint, error) {
	if len(waypoints) < 2 {
		return nil, ports.ErrNotEnoughWaypoints
	}

	visited := make([]bool, len(waypoints))
	sequenced := make([]ports.SequencedWaypoint, 0, len(waypoints))
	current := origin

	for len(sequenced) < len(waypoints) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		best := -1
		bestDistance := math.Inf(1)
		for i, w := range waypoints {
			if visited[i] {
				continue
			}
			if best < 0 {
				best = i
			}
			if d := current.DistanceTo(w.Location); d < bestDistance {
				best, bestDistance = i, d
			}
		}

		visited[best] = true
		current = waypoints[best].Location
		sequenced = append(sequenced, ports.SequencedWaypoint{
			ID:       waypoints[best].ID,
			Sequence: len(sequenced) + 1,
		})
	}

	return sequenced, nil
}

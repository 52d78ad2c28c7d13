package routing

import (
	"context"
	"cvrp-route-service/internal/domain"
	"fmt"
)

// nearestNeighbor walks greedily to the closest stop that still fits in
// the vehicle, returning to the depot to refill when nothing fits.
//
// Stops whose demand exceeds a full vehicle are rejected with
// domain.ErrInfeasibleDemand, since the walk cannot split a delivery.
type nearestNeighbor struct {
	meter Meter
}

func (s *nearestNeighbor) CalculateRoute(
	ctx context.Context,
	depot domain.Stop,
	stops []domain.Stop,
	capacity int,
) (domain.Route, error) {
	depot, err := prepare(depot, stops, capacity)
	if err != nil {
		return domain.Route{}, fmt.Errorf("nearest neighbor: %w", err)
	}
	if err := domain.CheckDemandFits(stops, capacity); err != nil {
		return domain.Route{}, fmt.Errorf("nearest neighbor: %w", err)
	}

	b := newTripBuilder(ctx, s.meter, depot, capacity)
	unvisited := newStopSet(stops)

	for unvisited.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return domain.Route{}, fmt.Errorf("nearest neighbor: %w", err)
		}

		next, ok := unvisited.nearest(ctx, s.meter, b.at.Coordinates, func(st domain.Stop) bool {
			return st.Demand <= b.remaining
		})
		if !ok {
			if b.atDepot() && b.remaining == b.capacity {
				return domain.Route{}, fmt.Errorf("nearest neighbor: no stop fits a full vehicle: %w", domain.ErrInfeasibleDemand)
			}
			b.refill()
			continue
		}

		b.deliver(unvisited.stops[next])
		unvisited.remove(next)
	}

	return b.finish(NearestNeighbor), nil
}

package routing

import (
	"cmp"
	"context"
	"cvrp-route-service/internal/domain"
	"fmt"
	"slices"
)

// saving is the time gained by serving stops a and b (indices into the
// stop slice) on one trip rather than two depot round trips.
type saving struct {
	a, b  int
	value float64
}

// savings is the Clarke-Wright construction. Every stop starts on its own
// round trip; trips are merged greedily by descending saving, ignoring
// capacity, and the merged order is re-split by the assembler.
//
// Like nearestNeighbor it rejects stops that exceed a full vehicle.
type savings struct {
	meter Meter
}

func (s *savings) CalculateRoute(
	ctx context.Context,
	depot domain.Stop,
	stops []domain.Stop,
	capacity int,
) (domain.Route, error) {
	depot, err := prepare(depot, stops, capacity)
	if err != nil {
		return domain.Route{}, fmt.Errorf("savings: %w", err)
	}
	if err := domain.CheckDemandFits(stops, capacity); err != nil {
		return domain.Route{}, fmt.Errorf("savings: %w", err)
	}

	pairs, err := s.rank(ctx, depot, stops)
	if err != nil {
		return domain.Route{}, fmt.Errorf("savings: %w", err)
	}

	order := mergeTrips(stops, pairs)
	return Assemble(ctx, s.meter, depot, order, capacity, Savings), nil
}

// rank computes every pairwise saving, highest first. Equal savings keep
// the order in which the pairs were generated.
func (s *savings) rank(ctx context.Context, depot domain.Stop, stops []domain.Stop) ([]saving, error) {
	fromDepot := make([]float64, len(stops))
	for i, st := range stops {
		fromDepot[i] = s.meter.Measure(ctx, depot.Coordinates, st.Coordinates).TimeSeconds
	}

	pairs := make([]saving, 0, len(stops)*(len(stops)-1)/2)
	for i := range stops {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := i + 1; j < len(stops); j++ {
			between := s.meter.Measure(ctx, stops[i].Coordinates, stops[j].Coordinates).TimeSeconds
			pairs = append(pairs, saving{a: i, b: j, value: fromDepot[i] + fromDepot[j] - between})
		}
	}

	slices.SortStableFunc(pairs, func(x, y saving) int {
		return cmp.Compare(y.value, x.value)
	})
	return pairs, nil
}

// mergeTrips applies the ranked savings and flattens the surviving trips.
func mergeTrips(stops []domain.Stop, pairs []saving) []domain.Stop {
	trips := make([][]int, len(stops))
	tripOf := make([]int, len(stops))
	for i := range stops {
		trips[i] = []int{i}
		tripOf[i] = i
	}

	for _, p := range pairs {
		ta, tb := tripOf[p.a], tripOf[p.b]
		if ta == tb {
			continue
		}
		// Drop a's closing depot leg and b's opening one: concatenation.
		trips[ta] = append(trips[ta], trips[tb]...)
		for _, k := range trips[tb] {
			tripOf[k] = ta
		}
		trips[tb] = nil
	}

	order := make([]domain.Stop, 0, len(stops))
	for _, t := range trips {
		for _, i := range t {
			order = append(order, stops[i])
		}
	}
	return order
}

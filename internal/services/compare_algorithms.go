package services

import (
	"context"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/platform/obs"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Comparison is the outcome of one algorithm in a comparison run.
// Exactly one of Result and Err is set.
type Comparison struct {
	Algorithm string
	Result    *domain.RouteResult
	Err       error
}

// CompareAlgorithms runs several strategies on the same input in parallel.
// Each run owns its strategy state; only the distance cache is shared.
// A strategy failing (for example on infeasible demand) does not stop the
// others. An empty names list compares every registered algorithm.
func (p *Planner) CompareAlgorithms(
	ctx context.Context,
	req PlanRequest,
	names []string,
) (_ []Comparison, err error) {
	defer obs.Time(ctx, "services.CompareAlgorithms")(&err)

	if len(names) == 0 {
		names = p.Registry.Names()
	}
	for _, name := range names {
		if !p.Registry.Has(name) {
			return nil, fmt.Errorf("compare algorithms: %q: %w", name, domain.ErrUnknownAlgorithm)
		}
	}

	depot, stops, err := p.resolveStops(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("compare algorithms: %w", err)
	}

	if err := domain.ValidateRouteInput(depot, stops, req.Capacity); err != nil {
		return nil, fmt.Errorf("compare algorithms: %w", err)
	}

	if req.Prefetch {
		if err := p.prefetch(ctx, depot, stops); err != nil {
			return nil, fmt.Errorf("compare algorithms: %w", err)
		}
	}

	out := make([]Comparison, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			result, err := p.run(gctx, name, depot, stops, req)
			if err != nil {
				out[i] = Comparison{Algorithm: name, Err: err}
				return gctx.Err()
			}
			p.persist(gctx, result)
			out[i] = Comparison{Algorithm: name, Result: &result}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("compare algorithms: %w", err)
	}

	return out, nil
}

// Best returns the successful comparison with the lowest total time, ties
// broken by distance, or false when every algorithm failed.
func Best(results []Comparison) (Comparison, bool) {
	var best Comparison
	found := false
	for _, c := range results {
		if c.Result == nil {
			continue
		}
		cur := domain.TravelMeasurement{TimeSeconds: c.Result.Summary.TotalTime, DistanceMeters: c.Result.Summary.TotalDistance}
		if !found {
			best, found = c, true
			continue
		}
		b := domain.TravelMeasurement{TimeSeconds: best.Result.Summary.TotalTime, DistanceMeters: best.Result.Summary.TotalDistance}
		if cur.BetterThan(b) {
			best = c
		}
	}
	return best, found
}

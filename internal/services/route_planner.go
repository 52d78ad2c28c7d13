package services

import (
	"context"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/platform/obs"
	"cvrp-route-service/internal/ports"
	"cvrp-route-service/internal/routing"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/go-kit/log/level"
	"github.com/google/uuid"
)

// Planner runs routing strategies against a shared distance cache and
// optionally loads stops from, and saves results to, a repository.
type Planner struct {
	Registry        *routing.Registry
	Oracle          ports.TravelOracle
	Cache           ports.DistanceCache
	Stops           ports.StopRepository
	Results         ports.ResultRepository
	Tuning          routing.AnnealingTuning
	LookupTimeout   time.Duration
	PrefetchWorkers int
	Now             func() time.Time
}

type PlanRequest struct {
	Algorithm string
	Capacity  int
	// Seed drives the annealing strategies; zero picks a time-based seed.
	Seed int64
	// Prefetch resolves every stop pair concurrently before routing.
	Prefetch bool

	// Either an explicit depot and stops, or StopLimit stops from the
	// repository with the first one as depot.
	Depot     *domain.Stop
	Stops     []domain.Stop
	StopLimit int
}

// PlanRoute validates the request, runs one strategy, and persists the result
// when a result repository is configured.
func (p *Planner) PlanRoute(ctx context.Context, req PlanRequest) (_ domain.RouteResult, err error) {
	defer obs.Time(ctx, "services.PlanRoute")(&err)

	if !p.Registry.Has(req.Algorithm) {
		return domain.RouteResult{}, fmt.Errorf("plan route: %q: %w", req.Algorithm, domain.ErrUnknownAlgorithm)
	}

	depot, stops, err := p.resolveStops(ctx, req)
	if err != nil {
		return domain.RouteResult{}, fmt.Errorf("plan route: %w", err)
	}

	if err := domain.ValidateRouteInput(depot, stops, req.Capacity); err != nil {
		return domain.RouteResult{}, fmt.Errorf("plan route: %w", err)
	}

	if req.Prefetch {
		if err := p.prefetch(ctx, depot, stops); err != nil {
			return domain.RouteResult{}, fmt.Errorf("plan route: %w", err)
		}
	}

	result, err := p.run(ctx, req.Algorithm, depot, stops, req)
	if err != nil {
		return domain.RouteResult{}, fmt.Errorf("plan route: %w", err)
	}

	p.persist(ctx, result)
	return result, nil
}

// resolveStops returns the explicit stops of req, or loads them from the
// stop repository.
func (p *Planner) resolveStops(ctx context.Context, req PlanRequest) (domain.Stop, []domain.Stop, error) {
	if req.Depot != nil {
		return req.Depot.AsDepot(), req.Stops, nil
	}

	if p.Stops == nil {
		return domain.Stop{}, nil, errors.New("resolve stops: no depot given and no stop repository configured")
	}

	limit := req.StopLimit
	if limit > 0 {
		// One extra row for the depot.
		limit++
	}

	all, err := p.Stops.ListStops(ctx, limit)
	if err != nil {
		return domain.Stop{}, nil, fmt.Errorf("resolve stops: %w", err)
	}
	if len(all) == 0 {
		return domain.Stop{}, nil, fmt.Errorf("resolve stops: repository is empty: %w", domain.ErrEmptyStopSet)
	}

	return all[0].AsDepot(), all[1:], nil
}

func (p *Planner) newMeasurer() *routing.Measurer {
	return routing.NewMeasurer(p.Oracle, p.Cache, routing.WithLookupTimeout(p.LookupTimeout))
}

func (p *Planner) prefetch(ctx context.Context, depot domain.Stop, stops []domain.Stop) error {
	points := make([]domain.Coordinates, 0, len(stops)+1)
	points = append(points, depot.Coordinates)
	for _, s := range stops {
		points = append(points, s.Coordinates)
	}

	m := p.newMeasurer()
	if err := m.Prefetch(ctx, points, p.PrefetchWorkers); err != nil {
		return fmt.Errorf("prefetch: %w", err)
	}

	level.Debug(obs.Logger()).Log("req_id", obs.RequestID(ctx), "msg", "prefetch complete", "points", len(points), "oracle_requests", m.Requests(), "oracle_failures", m.Failures())
	return nil
}

// run executes one strategy with its own Measurer and builds the result.
func (p *Planner) run(
	ctx context.Context,
	algorithm string,
	depot domain.Stop,
	stops []domain.Stop,
	req PlanRequest,
) (domain.RouteResult, error) {
	m := p.newMeasurer()

	tuning := p.Tuning
	if tuning.InitialTemperature == 0 {
		tuning = routing.DefaultAnnealingTuning()
	}

	strategy, err := p.Registry.New(algorithm, m, routing.Options{Seed: req.Seed, Tuning: tuning})
	if err != nil {
		return domain.RouteResult{}, err
	}

	heapBefore := heapAlloc()
	start := time.Now()
	route, err := strategy.CalculateRoute(ctx, depot, stops, req.Capacity)
	elapsed := time.Since(start)
	heapGrowth := max(int64(heapAlloc())-int64(heapBefore), 0)
	obs.RouteDuration.WithLabelValues(algorithm).Observe(elapsed.Seconds())
	if err != nil {
		obs.RouteComputations.WithLabelValues(algorithm, "error").Inc()
		return domain.RouteResult{}, fmt.Errorf("%s: %w", algorithm, err)
	}
	obs.RouteComputations.WithLabelValues(algorithm, "ok").Inc()

	summary := domain.Summarize(route, len(stops))
	summary.OracleRequests = m.Requests()
	summary.OracleFailures = m.Failures()
	summary.Elapsed = elapsed
	summary.HeapGrowth = heapGrowth
	if sr, ok := strategy.(routing.StatsReporter); ok {
		stats := sr.Stats()
		summary.Annealing = &stats
	}

	if summary.OracleFailures > 0 {
		level.Warn(obs.Logger()).Log("req_id", obs.RequestID(ctx), "msg", "route computed with unavailable edges", "algorithm", algorithm, "oracle_failures", summary.OracleFailures)
	}

	return domain.RouteResult{
		ID:        uuid.NewString(),
		CreatedAt: p.now(),
		Route:     route,
		Summary:   summary,
	}, nil
}

func (p *Planner) persist(ctx context.Context, result domain.RouteResult) {
	if p.Results == nil {
		return
	}
	if err := p.Results.SaveResult(ctx, result); err != nil {
		level.Error(obs.Logger()).Log("req_id", obs.RequestID(ctx), "msg", "save route result failed", "result_id", result.ID, "err", err)
	}
}

func heapAlloc() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapAlloc
}

func (p *Planner) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

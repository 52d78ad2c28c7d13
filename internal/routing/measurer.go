package routing

import (
	"context"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/platform/obs"
	"cvrp-route-service/internal/ports"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-kit/log/level"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Meter resolves the travel measurement of one directed edge.
// It never fails: an unavailable edge measures as domain.Unreachable().
type Meter interface {
	Measure(ctx context.Context, from, to domain.Coordinates) domain.TravelMeasurement
}

// Measurer puts a DistanceCache in front of a TravelOracle.
//
// Concurrent lookups of the same pair share a single oracle call. A failed
// or timed-out lookup is remembered for the lifetime of the Measurer and
// answers with the unreachable sentinel; failures are never written to the cache.
//
// The Measurer is safe for concurrent use. Create one per route computation.
type Measurer struct {
	oracle  ports.TravelOracle
	cache   ports.DistanceCache
	timeout time.Duration

	group singleflight.Group

	mu     sync.RWMutex
	failed map[domain.PairKey]struct{}

	requests atomic.Int64
	failures atomic.Int64
}

type MeasurerOption func(*Measurer)

// WithLookupTimeout bounds each oracle call; a timeout counts as a failure.
func WithLookupTimeout(d time.Duration) MeasurerOption {
	return func(m *Measurer) { m.timeout = d }
}

// NewMeasurer builds a Measurer. A nil cache is replaced by a private map,
// so each pair still reaches the oracle at most once per Measurer.
func NewMeasurer(oracle ports.TravelOracle, cache ports.DistanceCache, opts ...MeasurerOption) *Measurer {
	if cache == nil {
		cache = &localCache{m: make(map[domain.PairKey]domain.TravelMeasurement)}
	}
	m := &Measurer{
		oracle: oracle,
		cache:  cache,
		failed: make(map[domain.PairKey]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Requests returns the number of oracle calls issued (cache misses).
func (m *Measurer) Requests() int64 { return m.requests.Load() }

// Failures returns the number of oracle calls that failed or timed out.
func (m *Measurer) Failures() int64 { return m.failures.Load() }

func (m *Measurer) Measure(ctx context.Context, from, to domain.Coordinates) domain.TravelMeasurement {
	if from == to {
		return domain.TravelMeasurement{}
	}

	key := domain.NewPairKey(from, to)
	if m.hasFailed(key) {
		return domain.Unreachable()
	}

	if v, ok := m.cached(ctx, key); ok {
		return v
	}

	v, err, _ := m.group.Do(key.String(), func() (any, error) {
		return m.lookup(ctx, key, from, to)
	})
	if err != nil {
		m.markFailed(key)
		level.Warn(obs.Logger()).Log("req_id", obs.RequestID(ctx), "msg", "oracle lookup failed", "pair", key.String(), "err", err)
		return domain.Unreachable()
	}

	return v.(domain.TravelMeasurement)
}

func (m *Measurer) cached(ctx context.Context, key domain.PairKey) (domain.TravelMeasurement, bool) {
	v, ok, err := m.cache.Get(ctx, key)
	if err != nil {
		level.Warn(obs.Logger()).Log("msg", "distance cache read failed", "pair", key.String(), "err", err)
		return domain.TravelMeasurement{}, false
	}
	if !ok {
		obs.CacheLookups.WithLabelValues("miss").Inc()
		return domain.TravelMeasurement{}, false
	}

	obs.CacheLookups.WithLabelValues("hit").Inc()
	return v, true
}

func (m *Measurer) lookup(
	ctx context.Context,
	key domain.PairKey,
	from, to domain.Coordinates,
) (domain.TravelMeasurement, error) {
	m.requests.Add(1)

	lctx := ctx
	if m.timeout > 0 {
		var cancel context.CancelFunc
		lctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	v, err := m.oracle.Lookup(lctx, from, to)
	if err != nil {
		m.failures.Add(1)
		obs.OracleRequests.WithLabelValues("error").Inc()
		return domain.TravelMeasurement{}, err
	}
	obs.OracleRequests.WithLabelValues("ok").Inc()

	m.store(ctx, key, v)
	return v, nil
}

func (m *Measurer) store(ctx context.Context, key domain.PairKey, v domain.TravelMeasurement) {
	if err := m.cache.Put(ctx, key, v); err != nil {
		level.Warn(obs.Logger()).Log("msg", "distance cache write failed", "pair", key.String(), "err", err)
	}
}

func (m *Measurer) hasFailed(key domain.PairKey) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.failed[key]
	return ok
}

func (m *Measurer) markFailed(key domain.PairKey) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed[key] = struct{}{}
}

// Prefetch resolves every ordered pair of distinct points with at most
// workers lookups in flight. Batch-capable oracles are asked one origin
// row at a time. Per-pair failures are absorbed like in Measure; only
// context cancellation is returned.
func (m *Measurer) Prefetch(ctx context.Context, points []domain.Coordinates, workers int) (err error) {
	defer obs.Time(ctx, "routing.Prefetch")(&err)

	if workers <= 0 {
		workers = 5
	}

	uniq := make([]domain.Coordinates, 0, len(points))
	seen := make(map[domain.Coordinates]struct{}, len(points))
	for _, p := range points {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		uniq = append(uniq, p)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	batch, isBatch := m.oracle.(ports.BatchTravelOracle)
	for _, origin := range uniq {
		if isBatch {
			g.Go(func() error {
				m.prefetchRow(gctx, batch, origin, uniq)
				return gctx.Err()
			})
			continue
		}

		for _, dest := range uniq {
			if dest == origin {
				continue
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				m.Measure(gctx, origin, dest)
				return nil
			})
		}
	}

	return g.Wait()
}

func (m *Measurer) prefetchRow(
	ctx context.Context,
	oracle ports.BatchTravelOracle,
	origin domain.Coordinates,
	points []domain.Coordinates,
) {
	misses := make([]domain.Coordinates, 0, len(points))
	for _, dest := range points {
		if dest == origin {
			continue
		}
		key := domain.NewPairKey(origin, dest)
		if m.hasFailed(key) {
			continue
		}
		if _, ok := m.cached(ctx, key); ok {
			continue
		}
		misses = append(misses, dest)
	}
	if len(misses) == 0 {
		return
	}

	m.requests.Add(1)
	row, err := oracle.LookupRow(ctx, origin, misses)
	if err != nil {
		m.failures.Add(1)
		obs.OracleRequests.WithLabelValues("error").Inc()
		// Leave the pairs unresolved; Measure retries them one by one.
		level.Warn(obs.Logger()).Log("req_id", obs.RequestID(ctx), "msg", "oracle row lookup failed", "origin", origin.Key(), "err", err)
		return
	}
	obs.OracleRequests.WithLabelValues("ok").Inc()

	for _, dest := range misses {
		if v, ok := row[dest.Key()]; ok {
			m.store(ctx, domain.NewPairKey(origin, dest), v)
		}
	}
}

type localCache struct {
	mu sync.RWMutex
	m  map[domain.PairKey]domain.TravelMeasurement
}

func (c *localCache) Get(_ context.Context, key domain.PairKey) (domain.TravelMeasurement, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[key]
	return v, ok, nil
}

func (c *localCache) Put(_ context.Context, key domain.PairKey, v domain.TravelMeasurement) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.m[key]; !ok {
		c.m[key] = v
	}
	return nil
}

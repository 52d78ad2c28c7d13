package routing

import (
	"context"
	"cvrp-route-service/internal/domain"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"
)

const (
	NearestNeighbor    = "nearest-neighbor"
	Savings            = "savings"
	SimulatedAnnealing = "simulated-annealing"
	NearestNeighborSA  = "nearest-neighbor-sa"
	ShortestPath       = "shortest-path"
)

// Strategy computes a complete route for one depot, stop set, and capacity.
// Instances carry per-computation state and must not be reused.
type Strategy interface {
	CalculateRoute(ctx context.Context, depot domain.Stop, stops []domain.Stop, capacity int) (domain.Route, error)
}

// StatsReporter is implemented by strategies that expose run statistics
// after CalculateRoute returns.
type StatsReporter interface {
	Stats() domain.AnnealingStats
}

// Options tunes strategy construction.
type Options struct {
	// Seed drives every random choice; zero picks a time-based seed.
	Seed   int64
	Tuning AnnealingTuning
}

func (o Options) rng() (*rand.Rand, int64) {
	seed := o.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)), seed
}

type Factory func(meter Meter, opts Options) Strategy

// Registry maps algorithm names to strategy factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a registry holding the five built-in strategies.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register(NearestNeighbor, func(m Meter, _ Options) Strategy { return &nearestNeighbor{meter: m} })
	r.Register(Savings, func(m Meter, _ Options) Strategy { return &savings{meter: m} })
	r.Register(SimulatedAnnealing, func(m Meter, o Options) Strategy { return newAnnealing(SimulatedAnnealing, m, o, shuffledOrder) })
	r.Register(NearestNeighborSA, func(m Meter, o Options) Strategy { return newAnnealing(NearestNeighborSA, m, o, greedyOrder) })
	r.Register(ShortestPath, func(m Meter, _ Options) Strategy { return &shortestPath{meter: m} })
	return r
}

func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.factories[name]
	return ok
}

// New builds a fresh strategy. Unknown names fail with domain.ErrUnknownAlgorithm.
func (r *Registry) New(name string, meter Meter, opts Options) (Strategy, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("new strategy %q: %w", name, domain.ErrUnknownAlgorithm)
	}
	return f(meter, opts), nil
}

// Names lists registered algorithms in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// prepare validates input and normalizes the depot's demand to zero.
func prepare(depot domain.Stop, stops []domain.Stop, capacity int) (domain.Stop, error) {
	if err := domain.ValidateRouteInput(depot, stops, capacity); err != nil {
		return domain.Stop{}, err
	}
	return depot.AsDepot(), nil
}

// stopSet holds the unvisited stops in input order.
type stopSet struct {
	stops []domain.Stop
	gone  []bool
	left  int
}

func newStopSet(stops []domain.Stop) *stopSet {
	return &stopSet{
		stops: stops,
		gone:  make([]bool, len(stops)),
		left:  len(stops),
	}
}

func (s *stopSet) Len() int { return s.left }

func (s *stopSet) remove(i int) {
	if !s.gone[i] {
		s.gone[i] = true
		s.left--
	}
}

// nearest returns the index of the unvisited stop closest to from among
// those accepted by fits. Ties on the full measurement keep input order.
func (s *stopSet) nearest(
	ctx context.Context,
	meter Meter,
	from domain.Coordinates,
	fits func(domain.Stop) bool,
) (int, bool) {
	best := -1
	var bestM domain.TravelMeasurement
	for i, st := range s.stops {
		if s.gone[i] || !fits(st) {
			continue
		}
		m := meter.Measure(ctx, from, st.Coordinates)
		if best < 0 || m.BetterThan(bestM) {
			best, bestM = i, m
		}
	}
	return best, best >= 0
}

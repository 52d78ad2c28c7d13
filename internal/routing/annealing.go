package routing

import (
	"context"
	"cvrp-route-service/internal/domain"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
)

// CoolingTier applies CoolingRate to problems of at most MaxStops stops.
type CoolingTier struct {
	MaxStops    int
	CoolingRate float64
}

// AnnealingTuning holds the temperature schedule. Tiers are checked in
// ascending MaxStops order; larger problems use DefaultCoolingRate.
type AnnealingTuning struct {
	InitialTemperature float64
	MinTemperature     float64
	Tiers              []CoolingTier
	DefaultCoolingRate float64
}

func DefaultAnnealingTuning() AnnealingTuning {
	return AnnealingTuning{
		InitialTemperature: 10000,
		MinTemperature:     1.0,
		Tiers:              []CoolingTier{{MaxStops: 16, CoolingRate: 0.01}},
		DefaultCoolingRate: 0.025,
	}
}

func (t AnnealingTuning) Validate() error {
	if t.InitialTemperature <= t.MinTemperature {
		return fmt.Errorf("annealing tuning: initial temperature %v must exceed minimum %v", t.InitialTemperature, t.MinTemperature)
	}
	if t.MinTemperature <= 0 {
		return errors.New("annealing tuning: minimum temperature must be positive")
	}
	rates := []float64{t.DefaultCoolingRate}
	for _, tier := range t.Tiers {
		if tier.MaxStops <= 0 {
			return fmt.Errorf("annealing tuning: tier max_stops=%d must be positive", tier.MaxStops)
		}
		rates = append(rates, tier.CoolingRate)
	}
	for _, r := range rates {
		if r <= 0 || r >= 1 {
			return fmt.Errorf("annealing tuning: cooling rate %v must be in (0, 1)", r)
		}
	}
	return nil
}

// CoolingRate picks the rate for a problem with n stops.
func (t AnnealingTuning) CoolingRate(n int) float64 {
	tiers := slices.Clone(t.Tiers)
	slices.SortFunc(tiers, func(a, b CoolingTier) int { return a.MaxStops - b.MaxStops })
	for _, tier := range tiers {
		if n <= tier.MaxStops {
			return tier.CoolingRate
		}
	}
	return t.DefaultCoolingRate
}

// AnnealingState is the mutable search state of one run.
type AnnealingState struct {
	Current       []domain.Stop
	CurrentEnergy float64
	Best          []domain.Stop
	BestEnergy    float64
	Temperature   float64
}

// initialOrder produces the starting visiting order for a run.
type initialOrder func(ctx context.Context, meter Meter, rng *rand.Rand, depot domain.Stop, stops []domain.Stop) []domain.Stop

// shuffledOrder is a seeded random permutation.
func shuffledOrder(_ context.Context, _ Meter, rng *rand.Rand, _ domain.Stop, stops []domain.Stop) []domain.Stop {
	order := slices.Clone(stops)
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	return order
}

// greedyOrder is a nearest-neighbor walk from the depot that ignores capacity.
func greedyOrder(ctx context.Context, meter Meter, _ *rand.Rand, depot domain.Stop, stops []domain.Stop) []domain.Stop {
	set := newStopSet(stops)
	order := make([]domain.Stop, 0, len(stops))
	at := depot.Coordinates
	for set.Len() > 0 {
		next, _ := set.nearest(ctx, meter, at, func(domain.Stop) bool { return true })
		order = append(order, stops[next])
		at = stops[next].Coordinates
		set.remove(next)
	}
	return order
}

// annealing improves an initial order by simulated annealing, minimizing
// total travel time of depot -> order... -> depot. Refills are not part of
// the objective; the best order found is split by the assembler, which also
// handles stops larger than a full vehicle.
type annealing struct {
	name    string
	meter   Meter
	opts    Options
	initial initialOrder
	stats   domain.AnnealingStats
}

func newAnnealing(name string, meter Meter, opts Options, initial initialOrder) *annealing {
	if opts.Tuning.InitialTemperature == 0 {
		opts.Tuning = DefaultAnnealingTuning()
	}
	return &annealing{name: name, meter: meter, opts: opts, initial: initial}
}

func (s *annealing) Stats() domain.AnnealingStats { return s.stats }

func (s *annealing) CalculateRoute(
	ctx context.Context,
	depot domain.Stop,
	stops []domain.Stop,
	capacity int,
) (domain.Route, error) {
	depot, err := prepare(depot, stops, capacity)
	if err != nil {
		return domain.Route{}, fmt.Errorf("%s: %w", s.name, err)
	}
	if err := s.opts.Tuning.Validate(); err != nil {
		return domain.Route{}, fmt.Errorf("%s: %w", s.name, err)
	}

	rng, seed := s.opts.rng()
	rate := s.opts.Tuning.CoolingRate(len(stops))
	s.stats = domain.AnnealingStats{
		Seed:               seed,
		InitialTemperature: s.opts.Tuning.InitialTemperature,
		CoolingRate:        rate,
	}

	order := s.initial(ctx, s.meter, rng, depot, stops)
	best, err := s.anneal(ctx, rng, depot, order, rate)
	if err != nil {
		return domain.Route{}, fmt.Errorf("%s: %w", s.name, err)
	}

	return Assemble(ctx, s.meter, depot, best, capacity, s.name), nil
}

func (s *annealing) anneal(
	ctx context.Context,
	rng *rand.Rand,
	depot domain.Stop,
	order []domain.Stop,
	rate float64,
) ([]domain.Stop, error) {
	e := s.energy(ctx, depot, order)
	st := AnnealingState{
		Current:       order,
		CurrentEnergy: e,
		Best:          slices.Clone(order),
		BestEnergy:    e,
		Temperature:   s.opts.Tuning.InitialTemperature,
	}
	s.stats.InitialEnergy = e
	s.stats.BestEnergy = e

	// No move changes a single-stop order.
	if len(order) < 2 {
		return st.Best, nil
	}

	for st.Temperature > s.opts.Tuning.MinTemperature {
		if s.stats.Iterations%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		neighbor := perturb(rng, st.Current)
		ne := s.energy(ctx, depot, neighbor)

		if accept(rng, st.CurrentEnergy, ne, st.Temperature) {
			if ne > st.CurrentEnergy {
				s.stats.AcceptedWorse++
			}
			st.Current, st.CurrentEnergy = neighbor, ne
		}

		if st.CurrentEnergy < st.BestEnergy {
			st.Best = slices.Clone(st.Current)
			st.BestEnergy = st.CurrentEnergy
			s.stats.Improvements++
		}

		st.Temperature *= 1 - rate
		s.stats.Iterations++
	}

	s.stats.BestEnergy = st.BestEnergy
	return st.Best, nil
}

// energy is the closed-tour travel time starting and ending at the depot.
func (s *annealing) energy(ctx context.Context, depot domain.Stop, order []domain.Stop) float64 {
	total := 0.0
	at := depot.Coordinates
	for _, st := range order {
		total += s.meter.Measure(ctx, at, st.Coordinates).TimeSeconds
		at = st.Coordinates
	}
	return total + s.meter.Measure(ctx, at, depot.Coordinates).TimeSeconds
}

// accept is the Metropolis criterion.
func accept(rng *rand.Rand, current, candidate, temperature float64) bool {
	if candidate < current {
		return true
	}
	return rng.Float64() < math.Exp((current-candidate)/temperature)
}

// perturb applies one uniformly chosen move (swap, reversal, or
// reinsertion) to a copy of order. order holds only non-depot stops, so
// the depot is never moved. Requires len(order) >= 2.
func perturb(rng *rand.Rand, order []domain.Stop) []domain.Stop {
	next := slices.Clone(order)
	n := len(next)

	switch rng.IntN(3) {
	case 0:
		i := rng.IntN(n)
		j := rng.IntN(n - 1)
		if j >= i {
			j++
		}
		next[i], next[j] = next[j], next[i]
	case 1:
		i := rng.IntN(n)
		j := i + rng.IntN(n-i)
		slices.Reverse(next[i : j+1])
	default:
		i := rng.IntN(n)
		st := next[i]
		next = slices.Delete(next, i, i+1)
		j := rng.IntN(len(next) + 1)
		next = slices.Insert(next, j, st)
	}

	return next
}

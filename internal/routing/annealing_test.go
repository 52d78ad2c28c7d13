package routing

import (
	"context"
	"cvrp-route-service/internal/domain"
	"math/rand/v2"
	"slices"
	"testing"
)

func gridStops() []domain.Stop {
	var stops []domain.Stop
	id := 1
	for lat := -2; lat <= 2; lat++ {
		for lon := -1; lon <= 1; lon++ {
			if lat == 0 && lon == 0 {
				continue
			}
			stops = append(stops, stopAt(id, float64(lat), float64(lon), 1+id%4))
			id++
		}
	}
	return stops
}

func TestAnnealingIsDeterministicForSeed(t *testing.T) {
	stops := gridStops()

	run := func() (domain.Route, domain.AnnealingStats) {
		s := newAnnealing(SimulatedAnnealing, deltaMeter{}, Options{Seed: 42}, shuffledOrder)
		route, err := s.CalculateRoute(context.Background(), testDepot, stops, 6)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return route, s.Stats()
	}

	r1, s1 := run()
	r2, s2 := run()

	if !slices.Equal(r1.Legs, r2.Legs) {
		t.Fatalf("expected identical legs for the same seed")
	}
	if s1 != s2 {
		t.Fatalf("expected identical stats, got %+v and %+v", s1, s2)
	}
	if s1.Seed != 42 {
		t.Fatalf("expected seed 42, got %d", s1.Seed)
	}
	if s1.Iterations == 0 {
		t.Fatalf("expected iterations to run")
	}
	if s1.BestEnergy > s1.InitialEnergy {
		t.Fatalf("best energy %v is worse than initial %v", s1.BestEnergy, s1.InitialEnergy)
	}
	assertRouteInvariants(t, r1, testDepot, stops, 6)
}

func TestNearestNeighborSAStartsFromGreedyTour(t *testing.T) {
	stops := gridStops()

	s := newAnnealing(NearestNeighborSA, deltaMeter{}, Options{Seed: 7}, greedyOrder)
	route, err := s.CalculateRoute(context.Background(), testDepot, stops, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	greedy := greedyOrder(context.Background(), deltaMeter{}, nil, testDepot, stops)
	e := s.energy(context.Background(), testDepot, greedy)

	stats := s.Stats()
	if stats.InitialEnergy != e {
		t.Fatalf("expected initial energy %v from greedy order, got %v", e, stats.InitialEnergy)
	}
	if stats.BestEnergy > e {
		t.Fatalf("best energy %v is worse than greedy %v", stats.BestEnergy, e)
	}
	if route.Algorithm != NearestNeighborSA {
		t.Fatalf("expected algorithm %q, got %q", NearestNeighborSA, route.Algorithm)
	}
	assertRouteInvariants(t, route, testDepot, stops, 6)
}

func TestAnnealingTimeSeedWhenZero(t *testing.T) {
	s := newAnnealing(SimulatedAnnealing, deltaMeter{}, Options{}, shuffledOrder)
	if _, err := s.CalculateRoute(context.Background(), testDepot, gridStops(), 6); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Stats().Seed == 0 {
		t.Fatalf("expected a generated seed")
	}
}

func TestAnnealingSingleStopSkipsSearch(t *testing.T) {
	stops := []domain.Stop{stopAt(1, 1, 0, 3)}

	s := newAnnealing(SimulatedAnnealing, deltaMeter{}, Options{Seed: 1}, shuffledOrder)
	route, err := s.CalculateRoute(context.Background(), testDepot, stops, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Stats().Iterations != 0 {
		t.Fatalf("expected no iterations, got %d", s.Stats().Iterations)
	}
	assertLegs(t, route, []wantLeg{
		{0, 1, 3},
		{1, 0, 0},
	})
}

func TestAnnealingCoolingRateTiers(t *testing.T) {
	tuning := DefaultAnnealingTuning()

	if got := tuning.CoolingRate(16); got != 0.01 {
		t.Fatalf("expected 0.01 for 16 stops, got %v", got)
	}
	if got := tuning.CoolingRate(17); got != 0.025 {
		t.Fatalf("expected 0.025 for 17 stops, got %v", got)
	}

	tuning.Tiers = []CoolingTier{
		{MaxStops: 50, CoolingRate: 0.02},
		{MaxStops: 10, CoolingRate: 0.005},
	}
	if got := tuning.CoolingRate(8); got != 0.005 {
		t.Fatalf("expected smallest matching tier 0.005, got %v", got)
	}
	if got := tuning.CoolingRate(30); got != 0.02 {
		t.Fatalf("expected 0.02 for 30 stops, got %v", got)
	}
}

func TestAnnealingTuningValidate(t *testing.T) {
	if err := DefaultAnnealingTuning().Validate(); err != nil {
		t.Fatalf("expected default tuning to be valid, got %v", err)
	}

	bad := []func(*AnnealingTuning){
		func(a *AnnealingTuning) { a.InitialTemperature = 0.5 },
		func(a *AnnealingTuning) { a.MinTemperature = 0; a.InitialTemperature = 10 },
		func(a *AnnealingTuning) { a.DefaultCoolingRate = 1 },
		func(a *AnnealingTuning) { a.Tiers = []CoolingTier{{MaxStops: 0, CoolingRate: 0.1}} },
		func(a *AnnealingTuning) { a.Tiers = []CoolingTier{{MaxStops: 5, CoolingRate: 0}} },
	}
	for i, mutate := range bad {
		tuning := DefaultAnnealingTuning()
		mutate(&tuning)
		if err := tuning.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error for %+v", i, tuning)
		}
	}
}

func TestPerturbKeepsPermutation(t *testing.T) {
	stops := gridStops()
	rng := rand.New(rand.NewPCG(1, 2))

	want := make([]int, 0, len(stops))
	for _, s := range stops {
		want = append(want, s.ID)
	}

	order := stops
	for i := 0; i < 500; i++ {
		order = perturb(rng, order)

		got := make([]int, 0, len(order))
		for _, s := range order {
			got = append(got, s.ID)
		}
		slices.Sort(got)
		if !slices.Equal(got, want) {
			t.Fatalf("iteration %d: perturb lost or duplicated stops: %v", i, got)
		}
	}
}

func TestAcceptMetropolis(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))

	if !accept(rng, 10, 5, 1) {
		t.Fatalf("expected improvement to be accepted")
	}

	accepted := 0
	for i := 0; i < 100; i++ {
		if accept(rng, 10, 1e6, 1) {
			accepted++
		}
	}
	if accepted != 0 {
		t.Fatalf("expected a huge regression at low temperature to be rejected, accepted %d times", accepted)
	}
}

package routing

import (
	"context"
	"cvrp-route-service/internal/domain"
	"errors"
	"slices"
	"testing"
)

func TestRegistryNames(t *testing.T) {
	r := NewRegistry()

	want := []string{NearestNeighbor, NearestNeighborSA, Savings, ShortestPath, SimulatedAnnealing}
	slices.Sort(want)

	if got := r.Names(); !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for _, name := range want {
		if !r.Has(name) {
			t.Fatalf("expected %q to be registered", name)
		}
	}
}

func TestRegistryUnknownAlgorithm(t *testing.T) {
	r := NewRegistry()

	_, err := r.New("dijkstra", deltaMeter{}, Options{})
	if !errors.Is(err, domain.ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm, got %v", err)
	}
	if r.Has("dijkstra") {
		t.Fatalf("expected dijkstra to be unknown")
	}
}

func TestStrategiesHoldRouteInvariants(t *testing.T) {
	stops := []domain.Stop{
		stopAt(1, 1, 1, 4),
		stopAt(2, -1, 2, 3),
		stopAt(3, 2, -1, 5),
		stopAt(4, -2, -2, 1),
		stopAt(5, 0.5, 3, 0),
		stopAt(6, 3, 3, 2),
		stopAt(7, -3, 0.5, 5),
	}

	r := NewRegistry()
	for _, name := range r.Names() {
		t.Run(name, func(t *testing.T) {
			s, err := r.New(name, deltaMeter{}, Options{Seed: 99})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			route, err := s.CalculateRoute(context.Background(), testDepot, stops, 5)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if route.Algorithm != name {
				t.Fatalf("expected algorithm %q, got %q", name, route.Algorithm)
			}
			assertRouteInvariants(t, route, testDepot, stops, 5)
		})
	}
}

func TestStrategiesInfeasibleDemandPolicy(t *testing.T) {
	stops := []domain.Stop{
		stopAt(1, 1, 0, 2),
		stopAt(2, 2, 0, 12),
	}

	rejects := map[string]bool{
		NearestNeighbor:    true,
		Savings:            true,
		SimulatedAnnealing: false,
		NearestNeighborSA:  false,
		ShortestPath:       false,
	}

	r := NewRegistry()
	for name, reject := range rejects {
		t.Run(name, func(t *testing.T) {
			s, err := r.New(name, deltaMeter{}, Options{Seed: 5})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			route, err := s.CalculateRoute(context.Background(), testDepot, stops, 5)
			if reject {
				if !errors.Is(err, domain.ErrInfeasibleDemand) {
					t.Fatalf("expected ErrInfeasibleDemand, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertRouteInvariants(t, route, testDepot, stops, 5)
		})
	}
}

func TestStrategiesValidateInput(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name     string
		stops    []domain.Stop
		capacity int
		want     error
	}{
		{name: "zero capacity", stops: []domain.Stop{stopAt(1, 1, 0, 1)}, capacity: 0, want: domain.ErrInvalidCapacity},
		{name: "empty stops", stops: nil, capacity: 5, want: domain.ErrEmptyStopSet},
		{name: "negative demand", stops: []domain.Stop{stopAt(1, 1, 0, -1)}, capacity: 5, want: domain.ErrInvalidDemand},
		{name: "duplicate id", stops: []domain.Stop{stopAt(1, 1, 0, 1), stopAt(1, 2, 0, 1)}, capacity: 5, want: domain.ErrDuplicateStop},
		{name: "depot id reused", stops: []domain.Stop{stopAt(0, 1, 0, 1)}, capacity: 5, want: domain.ErrDuplicateStop},
	}

	for _, name := range r.Names() {
		for _, tt := range tests {
			s, err := r.New(name, deltaMeter{}, Options{Seed: 1})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			_, err = s.CalculateRoute(context.Background(), testDepot, tt.stops, tt.capacity)
			if !errors.Is(err, tt.want) {
				t.Fatalf("%s/%s: expected %v, got %v", name, tt.name, tt.want, err)
			}
		}
	}
}

func TestPrepareZeroesDepotDemand(t *testing.T) {
	depot, err := prepare(stopAt(0, 0, 0, 9), []domain.Stop{stopAt(1, 1, 0, 1)}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if depot.Demand != 0 {
		t.Fatalf("expected depot demand 0, got %d", depot.Demand)
	}
}

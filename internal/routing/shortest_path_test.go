package routing

import (
	"context"
	"cvrp-route-service/internal/domain"
	"errors"
	"testing"
)

func TestShortestPathFollowsChain(t *testing.T) {
	stops := []domain.Stop{
		stopAt(1, 1, 0, 2),
		stopAt(2, 2, 0, 2),
	}

	s := &shortestPath{meter: squareMeter{}}
	route, err := s.CalculateRoute(context.Background(), testDepot, stops, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertLegs(t, route, []wantLeg{
		{0, 1, 2},
		{1, 2, 2},
		{2, 0, 0},
	})
}

func TestShortestPathRefillsWhenLabelCapacityIsShort(t *testing.T) {
	stops := []domain.Stop{
		stopAt(1, 1, 0, 3),
		stopAt(2, 2, 0, 3),
	}

	s := &shortestPath{meter: squareMeter{}}
	route, err := s.CalculateRoute(context.Background(), testDepot, stops, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertLegs(t, route, []wantLeg{
		{0, 1, 3},
		{1, 0, 0},
		{0, 2, 3},
		{2, 0, 0},
	})
	assertRouteInvariants(t, route, testDepot, stops, 5)
}

func TestShortestPathReplaysPathFromDepot(t *testing.T) {
	stops := []domain.Stop{
		stopAt(1, 1, 0, 1),
		stopAt(2, 2, 0.2, 1),
		stopAt(3, 2, -0.3, 1),
	}

	s := &shortestPath{meter: squareMeter{}}
	route, err := s.CalculateRoute(context.Background(), testDepot, stops, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Stop 3 is reached through stop 1, which the vehicle passes again
	// without delivering.
	assertLegs(t, route, []wantLeg{
		{0, 1, 1},
		{1, 2, 1},
		{2, 0, 0},
		{0, 1, 0},
		{1, 3, 1},
		{3, 0, 0},
	})
	assertRouteInvariants(t, route, testDepot, stops, 10)
}

func TestShortestPathSplitsOversizedDemand(t *testing.T) {
	stops := []domain.Stop{
		stopAt(1, 1, 0, 12),
		stopAt(2, 2, 0, 3),
	}

	s := &shortestPath{meter: deltaMeter{}}
	route, err := s.CalculateRoute(context.Background(), testDepot, stops, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertRouteInvariants(t, route, testDepot, stops, 5)
}

func TestShortestPathHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &shortestPath{meter: deltaMeter{}}
	_, err := s.CalculateRoute(ctx, testDepot, []domain.Stop{stopAt(1, 1, 0, 1)}, 5)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRemainingAfter(t *testing.T) {
	tests := []struct {
		start, demand, capacity int
		want                    int
	}{
		{start: 5, demand: 3, capacity: 5, want: 2},
		{start: 5, demand: 5, capacity: 5, want: 5},
		{start: 3, demand: 4, capacity: 5, want: 4},
		{start: 2, demand: 12, capacity: 5, want: 5},
		{start: 4, demand: 0, capacity: 5, want: 4},
	}

	for _, tt := range tests {
		if got := remainingAfter(tt.start, tt.demand, tt.capacity); got != tt.want {
			t.Fatalf("remainingAfter(%d, %d, %d): expected %d, got %d", tt.start, tt.demand, tt.capacity, tt.want, got)
		}
	}
}

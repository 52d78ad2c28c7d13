package routing

import (
	"context"
	"cvrp-route-service/internal/domain"
	"errors"
	"testing"
)

func TestSavingsMergesLine(t *testing.T) {
	stops := []domain.Stop{
		stopAt(1, 1, 0, 1),
		stopAt(2, 2, 0, 1),
		stopAt(3, 3, 0, 1),
	}

	s := &savings{meter: deltaMeter{}}
	route, err := s.CalculateRoute(context.Background(), testDepot, stops, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertLegs(t, route, []wantLeg{
		{0, 1, 1},
		{1, 2, 1},
		{2, 3, 1},
		{3, 0, 0},
	})
	if got := route.Total().TimeSeconds; got != 6 {
		t.Fatalf("expected total time 6, got %v", got)
	}
}

func TestSavingsRankOrdersDescending(t *testing.T) {
	stops := []domain.Stop{
		stopAt(1, 1, 0, 1),
		stopAt(2, 2, 0, 1),
		stopAt(3, 3, 0, 1),
	}

	s := &savings{meter: deltaMeter{}}
	pairs, err := s.rank(context.Background(), testDepot, stops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []saving{
		{a: 1, b: 2, value: 4},
		{a: 0, b: 1, value: 2},
		{a: 0, b: 2, value: 2},
	}
	if len(pairs) != len(want) {
		t.Fatalf("expected %d pairs, got %d", len(want), len(pairs))
	}
	for i := range want {
		if pairs[i] != want[i] {
			t.Fatalf("pair %d: expected %+v, got %+v", i, want[i], pairs[i])
		}
	}
}

func TestSavingsRespectsCapacity(t *testing.T) {
	stops := []domain.Stop{
		stopAt(1, 1, 0, 6),
		stopAt(2, 2, 1, 6),
		stopAt(3, 3, -1, 6),
		stopAt(4, -2, 0, 0),
	}

	s := &savings{meter: deltaMeter{}}
	route, err := s.CalculateRoute(context.Background(), testDepot, stops, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertRouteInvariants(t, route, testDepot, stops, 10)
}

func TestSavingsRejectsInfeasibleDemand(t *testing.T) {
	s := &savings{meter: deltaMeter{}}
	_, err := s.CalculateRoute(context.Background(), testDepot, []domain.Stop{stopAt(1, 1, 0, 11)}, 10)
	if !errors.Is(err, domain.ErrInfeasibleDemand) {
		t.Fatalf("expected ErrInfeasibleDemand, got %v", err)
	}
}

package routing

import (
	"context"
	"cvrp-route-service/internal/domain"
	"testing"
)

func TestAssembleSplitsDeliveryAcrossRefill(t *testing.T) {
	stops := []domain.Stop{
		stopAt(1, 1, 0, 3),
		stopAt(2, 2, 0, 4),
		stopAt(3, 3, 0, 2),
	}

	route := Assemble(context.Background(), deltaMeter{}, testDepot, stops, 5, "test")

	assertLegs(t, route, []wantLeg{
		{0, 1, 3},
		{1, 2, 2},
		{2, 0, 0},
		{0, 2, 2},
		{2, 3, 2},
		{3, 0, 0},
	})
	assertRouteInvariants(t, route, testDepot, stops, 5)

	if got := route.Total().TimeSeconds; got != 10 {
		t.Fatalf("expected total time 10, got %v", got)
	}
	if got := route.ReturnsToDepot(); got != 1 {
		t.Fatalf("expected 1 return to depot, got %d", got)
	}
	if route.Algorithm != "test" || route.DepotID != 0 || route.Capacity != 5 {
		t.Fatalf("unexpected route header: %+v", route)
	}
}

func TestAssembleDemandLargerThanCapacity(t *testing.T) {
	stops := []domain.Stop{stopAt(1, 1, 0, 12)}

	route := Assemble(context.Background(), deltaMeter{}, testDepot, stops, 5, "test")

	assertLegs(t, route, []wantLeg{
		{0, 1, 5},
		{1, 0, 0},
		{0, 1, 5},
		{1, 0, 0},
		{0, 1, 2},
		{1, 0, 0},
	})
	assertRouteInvariants(t, route, testDepot, stops, 5)

	if got := route.ReturnsToDepot(); got != 2 {
		t.Fatalf("expected 2 returns to depot, got %d", got)
	}
}

func TestAssembleRefillsWhenEmpty(t *testing.T) {
	stops := []domain.Stop{
		stopAt(1, 1, 0, 5),
		stopAt(2, 2, 0, 1),
	}

	route := Assemble(context.Background(), deltaMeter{}, testDepot, stops, 5, "test")

	assertLegs(t, route, []wantLeg{
		{0, 1, 5},
		{1, 0, 0},
		{0, 2, 1},
		{2, 0, 0},
	})
}

func TestAssembleVisitsZeroDemandStop(t *testing.T) {
	stops := []domain.Stop{
		stopAt(1, 1, 0, 0),
		stopAt(2, 2, 0, 2),
	}

	route := Assemble(context.Background(), deltaMeter{}, testDepot, stops, 5, "test")

	assertLegs(t, route, []wantLeg{
		{0, 1, 0},
		{1, 2, 2},
		{2, 0, 0},
	})
}

func TestAssembleSkipsDepotInOrder(t *testing.T) {
	stops := []domain.Stop{testDepot, stopAt(1, 1, 0, 1)}

	route := Assemble(context.Background(), deltaMeter{}, testDepot, stops, 5, "test")

	assertLegs(t, route, []wantLeg{
		{0, 1, 1},
		{1, 0, 0},
	})
}

package routing

import (
	"context"
	"cvrp-route-service/internal/domain"
	"math"
	"testing"
)

// deltaMeter measures both time and distance as |dLat| + |dLon|.
type deltaMeter struct{}

func (deltaMeter) Measure(_ context.Context, from, to domain.Coordinates) domain.TravelMeasurement {
	d := math.Abs(from.Lat-to.Lat) + math.Abs(from.Lon-to.Lon)
	return domain.TravelMeasurement{TimeSeconds: d, DistanceMeters: d}
}

// squareMeter uses squared euclidean length, so detours through an
// intermediate stop are strictly cheaper than direct hops.
type squareMeter struct{}

func (squareMeter) Measure(_ context.Context, from, to domain.Coordinates) domain.TravelMeasurement {
	dLat, dLon := from.Lat-to.Lat, from.Lon-to.Lon
	d := dLat*dLat + dLon*dLon
	return domain.TravelMeasurement{TimeSeconds: d, DistanceMeters: d}
}

func stopAt(id int, lat, lon float64, demand int) domain.Stop {
	return domain.Stop{ID: id, Coordinates: domain.Coordinates{Lat: lat, Lon: lon}, Demand: demand}
}

var testDepot = stopAt(0, 0, 0, 0)

type wantLeg struct {
	from, to, units int
}

func assertLegs(t *testing.T, route domain.Route, want []wantLeg) {
	t.Helper()

	if len(route.Legs) != len(want) {
		t.Fatalf("expected %d legs, got %d: %+v", len(want), len(route.Legs), route.Legs)
	}
	for i, w := range want {
		l := route.Legs[i]
		if l.OriginID != w.from || l.DestinationID != w.to || l.Units != w.units {
			t.Fatalf("leg %d: expected %d->%d units=%d, got %d->%d units=%d",
				i, w.from, w.to, w.units, l.OriginID, l.DestinationID, l.Units)
		}
	}
}

// assertRouteInvariants checks the properties every strategy must hold:
// the route is a closed walk from the depot, each trip carries at most
// capacity units, and every stop receives exactly its demand.
func assertRouteInvariants(t *testing.T, route domain.Route, depot domain.Stop, stops []domain.Stop, capacity int) {
	t.Helper()

	if len(route.Legs) == 0 {
		t.Fatalf("expected legs, got none")
	}
	if route.Legs[0].OriginID != depot.ID {
		t.Fatalf("expected route to start at depot %d, got %d", depot.ID, route.Legs[0].OriginID)
	}
	if last := route.Legs[len(route.Legs)-1]; last.DestinationID != depot.ID {
		t.Fatalf("expected route to end at depot %d, got %d", depot.ID, last.DestinationID)
	}

	for i := 1; i < len(route.Legs); i++ {
		if route.Legs[i].OriginID != route.Legs[i-1].DestinationID {
			t.Fatalf("leg %d starts at %d but previous leg ended at %d", i, route.Legs[i].OriginID, route.Legs[i-1].DestinationID)
		}
	}

	for i, trip := range route.Trips() {
		load := 0
		for _, l := range trip {
			if l.Units < 0 {
				t.Fatalf("trip %d: negative units on leg %+v", i, l)
			}
			load += l.Units
		}
		if load > capacity {
			t.Fatalf("trip %d carries %d units, capacity is %d", i, load, capacity)
		}
	}

	visited := make(map[int]bool)
	for _, l := range route.Legs {
		visited[l.DestinationID] = true
	}
	delivered := route.DeliveredTo()
	if delivered[depot.ID] != 0 {
		t.Fatalf("expected no units at depot, got %d", delivered[depot.ID])
	}
	total := 0
	for _, s := range stops {
		if !visited[s.ID] {
			t.Fatalf("stop %d was never visited", s.ID)
		}
		if delivered[s.ID] != s.Demand {
			t.Fatalf("stop %d: expected %d units delivered, got %d", s.ID, s.Demand, delivered[s.ID])
		}
		total += s.Demand
	}
	if route.DeliveredUnits() != total {
		t.Fatalf("expected %d units delivered in total, got %d", total, route.DeliveredUnits())
	}
}

package routing

import (
	"context"
	"cvrp-route-service/internal/domain"
)

// tripBuilder emits legs while tracking the vehicle's position and load.
// Every helper keeps the invariant that the vehicle never carries more
// than capacity units between two depot visits.
type tripBuilder struct {
	ctx       context.Context
	meter     Meter
	depot     domain.Stop
	capacity  int
	remaining int
	at        domain.Stop
	legs      []domain.RouteLeg
}

func newTripBuilder(ctx context.Context, meter Meter, depot domain.Stop, capacity int) *tripBuilder {
	return &tripBuilder{
		ctx:       ctx,
		meter:     meter,
		depot:     depot,
		capacity:  capacity,
		remaining: capacity,
		at:        depot,
	}
}

func (b *tripBuilder) atDepot() bool { return b.at.ID == b.depot.ID }

func (b *tripBuilder) drive(to domain.Stop, units int) {
	m := b.meter.Measure(b.ctx, b.at.Coordinates, to.Coordinates)
	b.legs = append(b.legs, domain.RouteLeg{
		OriginID:       b.at.ID,
		DestinationID:  to.ID,
		Origin:         b.at.Coordinates,
		Destination:    to.Coordinates,
		TimeSeconds:    m.TimeSeconds,
		DistanceMeters: m.DistanceMeters,
		Units:          units,
	})
	b.at = to
}

// refill returns to the depot when away from it and restores full capacity.
func (b *tripBuilder) refill() {
	if !b.atDepot() {
		b.drive(b.depot, 0)
	}
	b.remaining = b.capacity
}

// deliver drops the stop's whole demand, splitting it across as many
// refill cycles as needed. A stop with zero demand is still visited.
// When the vehicle ends up empty it heads back to the depot right away.
func (b *tripBuilder) deliver(to domain.Stop) {
	demand := to.Demand
	if demand == 0 {
		if b.at.ID != to.ID {
			b.drive(to, 0)
		}
		return
	}

	for demand > 0 {
		if b.remaining == 0 {
			b.refill()
		}
		if demand > b.remaining {
			b.drive(to, b.remaining)
			demand -= b.remaining
			b.refill()
			continue
		}
		b.drive(to, demand)
		b.remaining -= demand
		demand = 0
	}

	if b.remaining == 0 {
		b.refill()
	}
}

// finish closes the route with a final leg to the depot if needed.
func (b *tripBuilder) finish(algorithm string) domain.Route {
	if !b.atDepot() {
		b.drive(b.depot, 0)
	}
	return domain.Route{
		Algorithm: algorithm,
		DepotID:   b.depot.ID,
		Capacity:  b.capacity,
		Legs:      b.legs,
	}
}

// Assemble turns a visiting order of non-depot stops into concrete legs,
// inserting depot refills whenever the vehicle runs out of capacity.
// Demand larger than capacity is delivered over several refill cycles.
// A leading depot entry in order is ignored.
func Assemble(
	ctx context.Context,
	meter Meter,
	depot domain.Stop,
	order []domain.Stop,
	capacity int,
	algorithm string,
) domain.Route {
	b := newTripBuilder(ctx, meter, depot.AsDepot(), capacity)
	for _, s := range order {
		if s.ID == depot.ID {
			continue
		}
		b.deliver(s)
	}
	return b.finish(algorithm)
}

package domain

// Represents one directed edge actually driven by the vehicle.
// Units is the demand delivered at the destination; zero marks a
// refill, pass-through, or final return leg.
type RouteLeg struct {
	OriginID       int
	DestinationID  int
	Origin         Coordinates
	Destination    Coordinates
	TimeSeconds    float64
	DistanceMeters float64
	Units          int
}

func (l RouteLeg) Measurement() TravelMeasurement {
	return TravelMeasurement{TimeSeconds: l.TimeSeconds, DistanceMeters: l.DistanceMeters}
}

// Represents the full leg sequence produced by one routing computation.
// A valid route starts and ends at the depot and splits into trips,
// each of which starts with a full vehicle.
type Route struct {
	Algorithm string
	DepotID   int
	Capacity  int
	Legs      []RouteLeg
}

// Total sums time and distance over every leg.
func (r Route) Total() TravelMeasurement {
	var total TravelMeasurement
	for _, l := range r.Legs {
		total = total.Add(l.Measurement())
	}
	return total
}

// ReturnsToDepot counts depot-bound legs, excluding the final one.
func (r Route) ReturnsToDepot() int {
	n := 0
	for _, l := range r.Legs {
		if l.DestinationID == r.DepotID {
			n++
		}
	}
	if n > 0 && r.Legs[len(r.Legs)-1].DestinationID == r.DepotID {
		n--
	}
	return n
}

// DeliveredUnits sums the units carried over all legs.
func (r Route) DeliveredUnits() int {
	n := 0
	for _, l := range r.Legs {
		n += l.Units
	}
	return n
}

// DeliveredTo totals delivered units per destination stop id.
func (r Route) DeliveredTo() map[int]int {
	out := make(map[int]int)
	for _, l := range r.Legs {
		if l.Units > 0 {
			out[l.DestinationID] += l.Units
		}
	}
	return out
}

// Trips splits the route at every leg that ends at the depot.
func (r Route) Trips() [][]RouteLeg {
	var trips [][]RouteLeg
	start := 0
	for i, l := range r.Legs {
		if l.DestinationID == r.DepotID {
			trips = append(trips, r.Legs[start:i+1])
			start = i + 1
		}
	}
	if start < len(r.Legs) {
		trips = append(trips, r.Legs[start:])
	}
	return trips
}

package domain

import "math"

// TravelMeasurement is the cost of driving one directed edge, or the sum of several.
type TravelMeasurement struct {
	TimeSeconds    float64
	DistanceMeters float64
}

// Unreachable is the worst-case measurement recorded when a lookup fails.
// It loses every comparison against a real measurement.
func Unreachable() TravelMeasurement {
	return TravelMeasurement{TimeSeconds: math.MaxFloat64, DistanceMeters: math.MaxFloat64}
}

func (m TravelMeasurement) IsUnreachable() bool {
	return m.TimeSeconds >= math.MaxFloat64
}

func (m TravelMeasurement) Add(o TravelMeasurement) TravelMeasurement {
	return TravelMeasurement{
		TimeSeconds:    m.TimeSeconds + o.TimeSeconds,
		DistanceMeters: m.DistanceMeters + o.DistanceMeters,
	}
}

// BetterThan orders measurements by time, then by distance.
// It is the single tie-break rule used when comparing candidate destinations.
func (m TravelMeasurement) BetterThan(o TravelMeasurement) bool {
	if m.TimeSeconds != o.TimeSeconds {
		return m.TimeSeconds < o.TimeSeconds
	}
	return m.DistanceMeters < o.DistanceMeters
}

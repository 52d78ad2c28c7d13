package distance

import (
	"context"
	"cvrp-route-service/internal/domain"
	"math"
)

const (
	// Earth radius in meters.
	earthRadius = 6371000

	// Default average driving speed in meters per second (about 40 km/h).
	defaultSpeed = 11.1
)

// HaversineOracle measures great-circle distance and derives time from a
// constant speed. It is offline, deterministic, and never fails.
type HaversineOracle struct {
	speed float64
}

func NewHaversineOracle(speedMetersPerSecond float64) *HaversineOracle {
	if speedMetersPerSecond <= 0 {
		speedMetersPerSecond = defaultSpeed
	}
	return &HaversineOracle{speed: speedMetersPerSecond}
}

func (h *HaversineOracle) Lookup(_ context.Context, origin, destination domain.Coordinates) (domain.TravelMeasurement, error) {
	meters := HaversineDistance(origin, destination)
	return domain.TravelMeasurement{
		TimeSeconds:    meters / h.speed,
		DistanceMeters: meters,
	}, nil
}

// HaversineDistance returns the great-circle distance between two points in meters.
func HaversineDistance(a, b domain.Coordinates) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	deltaLat := toRadians(b.Lat - a.Lat)
	deltaLon := toRadians(b.Lon - a.Lon)

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadius * c
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

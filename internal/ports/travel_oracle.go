package ports

import (
	"context"
	"cvrp-route-service/internal/domain"
)

// Contract for resolving the travel time and distance between two coordinates.
// Implementations wrap domain.ErrOracleUnavailable when the provider cannot
// be reached or answers with a malformed or empty result.
type TravelOracle interface {
	Lookup(ctx context.Context, origin, destination domain.Coordinates) (domain.TravelMeasurement, error)
}

// Optional extension of TravelOracle that supports one-origin, many-destination lookups.
type BatchTravelOracle interface {
	TravelOracle
	// Return measurements keyed by destination Coordinates.Key().
	LookupRow(ctx context.Context, origin domain.Coordinates, destinations []domain.Coordinates) (map[string]domain.TravelMeasurement, error)
}

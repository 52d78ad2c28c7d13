package ports

import (
	"context"
	"cvrp-route-service/internal/domain"
)

// Memoizes oracle results keyed by the literal coordinate pair.
// Put keeps the first value written for a key.
type DistanceCache interface {
	Get(ctx context.Context, key domain.PairKey) (domain.TravelMeasurement, bool, error)
	Put(ctx context.Context, key domain.PairKey, m domain.TravelMeasurement) error
}

// Optional extension of DistanceCache for persistent stores that can read
// one origin's row in a single query.
type DistanceRowReader interface {
	GetRow(ctx context.Context, origin string, destinations []string) (map[string]domain.TravelMeasurement, error)
}

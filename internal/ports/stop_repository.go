package ports

import (
	"context"
	"cvrp-route-service/internal/domain"
)

// Port: a boundary for retrieving stops from a data source.
type StopRepository interface {
	// Retrieve up to limit stops ordered by id; limit <= 0 returns all.
	// The first stop is the depot by convention.
	ListStops(ctx context.Context, limit int) ([]domain.Stop, error)
}

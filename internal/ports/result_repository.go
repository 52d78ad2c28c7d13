package ports

import (
	"context"
	"cvrp-route-service/internal/domain"
)

// Port: persistence for computed routes.
type ResultRepository interface {
	SaveResult(ctx context.Context, result domain.RouteResult) error
	// Return domain.ErrResultNotFound when no result has the given id.
	GetResult(ctx context.Context, id string) (domain.RouteResult, error)
	// List summaries of the most recent results, newest first, without legs.
	ListResults(ctx context.Context, limit int) ([]domain.RouteResult, error)
}

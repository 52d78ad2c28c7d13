package distance

import (
	"context"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/ports"
	"errors"
	"fmt"
)

// StoreOracle answers only from a precomputed distance store, such as a
// distance_cache table filled by dbtool. A missing pair is an oracle failure.
type StoreOracle struct {
	store ports.DistanceCache
}

func NewStoreOracle(store ports.DistanceCache) (*StoreOracle, error) {
	if store == nil {
		return nil, errors.New("store oracle: store is nil")
	}
	return &StoreOracle{store: store}, nil
}

func (s *StoreOracle) Lookup(ctx context.Context, origin, destination domain.Coordinates) (domain.TravelMeasurement, error) {
	key := domain.NewPairKey(origin, destination)
	m, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return domain.TravelMeasurement{}, fmt.Errorf("store oracle %s: %v: %w", key, err, domain.ErrOracleUnavailable)
	}
	if !ok {
		return domain.TravelMeasurement{}, fmt.Errorf("store oracle: no precomputed value for %s: %w", key, domain.ErrOracleUnavailable)
	}
	return m, nil
}

// LookupRow reads one origin's row in a single query when the store supports it.
func (s *StoreOracle) LookupRow(
	ctx context.Context,
	origin domain.Coordinates,
	destinations []domain.Coordinates,
) (map[string]domain.TravelMeasurement, error) {
	reader, ok := s.store.(ports.DistanceRowReader)
	if !ok {
		out := make(map[string]domain.TravelMeasurement, len(destinations))
		for _, d := range destinations {
			m, err := s.Lookup(ctx, origin, d)
			if err != nil {
				continue
			}
			out[d.Key()] = m
		}
		return out, nil
	}

	keys := make([]string, 0, len(destinations))
	for _, d := range destinations {
		keys = append(keys, d.Key())
	}

	row, err := reader.GetRow(ctx, origin.Key(), keys)
	if err != nil {
		return nil, fmt.Errorf("store oracle row %s: %v: %w", origin.Key(), err, domain.ErrOracleUnavailable)
	}
	return row, nil
}

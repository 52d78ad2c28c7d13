package cache

import (
	"context"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/platform/obs"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SQLDistanceCache is a Postgres-backed cache for origin->destination measurements.
type SQLDistanceCache struct {
	DB *sql.DB
}

func NewSQLDistanceCache(db *sql.DB) *SQLDistanceCache {
	return &SQLDistanceCache{DB: db}
}

func (s *SQLDistanceCache) Get(
	ctx context.Context,
	key domain.PairKey,
) (_ domain.TravelMeasurement, _ bool, err error) {
	if s.DB == nil {
		return domain.TravelMeasurement{}, false, errors.New("distance cache: db is nil")
	}

	q := `
	SELECT time_seconds, distance_meters
    FROM distance_cache
    WHERE origin = $1
        AND destination = $2;
	`

	var m domain.TravelMeasurement
	err = s.DB.QueryRowContext(ctx, q, key.Origin, key.Destination).Scan(&m.TimeSeconds, &m.DistanceMeters)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TravelMeasurement{}, false, nil
	}
	if err != nil {
		return domain.TravelMeasurement{}, false, fmt.Errorf("get distance cache %s: %w", key, err)
	}

	return m, true, nil
}

// Fetch cached measurements for one origin and multiple destinations.
func (s *SQLDistanceCache) GetRow(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]domain.TravelMeasurement, err error) {
	defer obs.Time(ctx, "distance.cache.GetRow")(&err)

	if s.DB == nil {
		return nil, errors.New("distance cache: db is nil")
	}

	if origin == "" {
		return nil, errors.New("get distance cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations)
	if len(uniq) == 0 {
		return map[string]domain.TravelMeasurement{}, nil
	}

	q := `
	SELECT destination, time_seconds, distance_meters
    FROM distance_cache
    WHERE origin = $1
        AND destination = ANY($2::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, origin, uniq)
	if err != nil {
		return nil, fmt.Errorf("get distance cache: query distance_cache table: %w", err)
	}
	defer rows.Close()

	return scanRow(rows, len(uniq))
}

// Put stores a measurement unless one already exists for the pair.
func (s *SQLDistanceCache) Put(ctx context.Context, key domain.PairKey, m domain.TravelMeasurement) error {
	if s.DB == nil {
		return errors.New("distance cache: db is nil")
	}

	if key.Origin == "" || key.Destination == "" {
		return errors.New("insert distance cache: origin and destination must not be empty")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO distance_cache (origin, destination, time_seconds, distance_meters)
    VALUES ($1, $2, $3, $4)
	ON CONFLICT (origin, destination) DO NOTHING;
	`, key.Origin, key.Destination, m.TimeSeconds, m.DistanceMeters)
	if err != nil {
		return fmt.Errorf("insert distance cache %s: %w", key, err)
	}

	return nil
}

func uniqueKeys(keys []string) []string {
	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}

		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	return uniq
}

func scanRow(rows *sql.Rows, size int) (map[string]domain.TravelMeasurement, error) {
	out := make(map[string]domain.TravelMeasurement, size)
	for rows.Next() {
		var dest string
		var m domain.TravelMeasurement
		if err := rows.Scan(&dest, &m.TimeSeconds, &m.DistanceMeters); err != nil {
			return nil, fmt.Errorf("get distance cache: scan rows: %w", err)
		}
		out[dest] = m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get distance cache: row iteration: %w", err)
	}
	return out, nil
}

package cache

import (
	"context"
	"cvrp-route-service/internal/domain"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SQLite backed cache for origin->destination measurements.
// Keys are the literal coordinate text produced by domain.Coordinates.Key.
type SqliteDistanceCache struct {
	DB *sql.DB
}

func NewSqliteDistanceCache(db *sql.DB) *SqliteDistanceCache {
	return &SqliteDistanceCache{DB: db}
}

func (s *SqliteDistanceCache) Get(ctx context.Context, key domain.PairKey) (domain.TravelMeasurement, bool, error) {
	if s.DB == nil {
		return domain.TravelMeasurement{}, false, errors.New("distance cache: db is nil")
	}

	q := `
	SELECT
        time_seconds,
        distance_meters
    FROM distance_cache
    WHERE origin = ?
        AND destination = ?;
	`

	var m domain.TravelMeasurement
	err := s.DB.QueryRowContext(ctx, q, key.Origin, key.Destination).Scan(&m.TimeSeconds, &m.DistanceMeters)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TravelMeasurement{}, false, nil
	}
	if err != nil {
		return domain.TravelMeasurement{}, false, fmt.Errorf("get distance cache %s: %w", key, err)
	}

	return m, true, nil
}

// Fetch cached measurements for one origin and multiple destinations.
func (s *SqliteDistanceCache) GetRow(
	ctx context.Context,
	origin string,
	destinations []string,
) (map[string]domain.TravelMeasurement, error) {
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

	ph := make([]string, 0, len(uniq))
	args := make([]any, 0, 1+len(uniq))
	args = append(args, origin)
	for _, d := range uniq {
		ph = append(ph, "?")
		args = append(args, d)
	}

	// SQLite does not support binding slices directly in an IN (...) clause.
	// Only the placeholder structure is interpolated; all values remain parameterized.
	q := fmt.Sprintf(`
	SELECT
        destination,
        time_seconds,
        distance_meters
    FROM distance_cache
    WHERE origin = ?
        AND destination IN (%s);
	`, strings.Join(ph, ","))

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get distance cache: query distance_cache table: %w", err)
	}
	defer rows.Close()

	return scanRow(rows, len(uniq))
}

// Put stores a measurement unless one already exists for the pair.
func (s *SqliteDistanceCache) Put(ctx context.Context, key domain.PairKey, m domain.TravelMeasurement) error {
	if s.DB == nil {
		return errors.New("distance cache: db is nil")
	}

	if key.Origin == "" || key.Destination == "" {
		return errors.New("insert distance cache: origin and destination must not be empty")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT OR IGNORE INTO distance_cache (
        origin,
        destination,
        time_seconds,
        distance_meters
    )
    VALUES (?, ?, ?, ?);
	`, key.Origin, key.Destination, m.TimeSeconds, m.DistanceMeters)
	if err != nil {
		return fmt.Errorf("insert distance cache %s: %w", key, err)
	}

	return nil
}

package repositories

import (
	"context"
	"cvrp-route-service/internal/domain"
	"database/sql"
	"errors"
	"fmt"
)

// SQL-backed implementation of the StopRepository port.
type SQLStopRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLStopRepository(db *sql.DB, d Dialect) *SQLStopRepository {
	return &SQLStopRepository{DB: db, Dialect: d}
}

// Return up to limit stops ordered by id; limit <= 0 returns every stop.
func (s *SQLStopRepository) ListStops(ctx context.Context, limit int) ([]domain.Stop, error) {
	if s.DB == nil {
		return nil, errors.New("stop repository: DB is nil")
	}

	query := `
	SELECT
		stop_id,
		lat,
		lon,
		demand
	FROM stops
	ORDER BY stop_id
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.DB.QueryContext(ctx, s.Dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list stops: query stops table: %w", err)
	}
	defer rows.Close()

	stops := make([]domain.Stop, 0, 64)
	for rows.Next() {
		var st domain.Stop
		if err := rows.Scan(&st.ID, &st.Coordinates.Lat, &st.Coordinates.Lon, &st.Demand); err != nil {
			return nil, fmt.Errorf("list stops: scan row: %w", err)
		}
		stops = append(stops, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stops: row iteration: %w", err)
	}

	return stops, nil
}

package repositories

import (
	"context"
	"cvrp-route-service/internal/domain"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Fixed-width UTC timestamps sort correctly as text in both databases.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

// SQL-backed implementation of the ResultRepository port.
type SQLResultRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLResultRepository(db *sql.DB, d Dialect) *SQLResultRepository {
	return &SQLResultRepository{DB: db, Dialect: d}
}

// SaveResult stores the summary row and every leg in one transaction.
func (s *SQLResultRepository) SaveResult(ctx context.Context, r domain.RouteResult) error {
	if s.DB == nil {
		return errors.New("result repository: DB is nil")
	}
	if r.ID == "" {
		return errors.New("save result: id must not be empty")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save result: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var initialTemp, coolingRate sql.NullFloat64
	if a := r.Summary.Annealing; a != nil {
		initialTemp = sql.NullFloat64{Float64: a.InitialTemperature, Valid: true}
		coolingRate = sql.NullFloat64{Float64: a.CoolingRate, Valid: true}
	}

	sm := r.Summary
	_, err = tx.ExecContext(ctx, s.Dialect.rebind(`
	INSERT INTO algorithm_results (
		result_id,
		algorithm,
		stop_count,
		capacity,
		initial_temperature,
		cooling_rate,
		total_time,
		total_distance,
		execution_ms,
		heap_growth_bytes,
		returns_to_depot,
		delivered_units,
		oracle_requests,
		oracle_failures,
		created_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`),
		r.ID, sm.Algorithm, sm.StopCount, sm.Capacity, initialTemp, coolingRate,
		sm.TotalTime, sm.TotalDistance, sm.Elapsed.Milliseconds(), sm.HeapGrowth, sm.ReturnsToDepot,
		sm.DeliveredUnits, sm.OracleRequests, sm.OracleFailures,
		r.CreatedAt.UTC().Format(createdAtLayout),
	)
	if err != nil {
		return fmt.Errorf("save result %s: insert summary: %w", r.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, s.Dialect.rebind(`
	INSERT INTO route_legs (
		result_id,
		seq,
		origin_id,
		destination_id,
		origin_lat,
		origin_lon,
		dest_lat,
		dest_lon,
		time_seconds,
		distance_meters,
		units
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("save result %s: prepare legs: %w", r.ID, err)
	}
	defer stmt.Close()

	for i, l := range r.Route.Legs {
		_, err := stmt.ExecContext(ctx,
			r.ID, i, l.OriginID, l.DestinationID,
			l.Origin.Lat, l.Origin.Lon, l.Destination.Lat, l.Destination.Lon,
			l.TimeSeconds, l.DistanceMeters, l.Units,
		)
		if err != nil {
			return fmt.Errorf("save result %s: insert leg #%d: %w", r.ID, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save result %s: commit tx: %w", r.ID, err)
	}

	return nil
}

const resultColumns = `
		result_id,
		algorithm,
		stop_count,
		capacity,
		initial_temperature,
		cooling_rate,
		total_time,
		total_distance,
		execution_ms,
		heap_growth_bytes,
		returns_to_depot,
		delivered_units,
		oracle_requests,
		oracle_failures,
		created_at
`

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (domain.RouteResult, error) {
	var (
		r           domain.RouteResult
		initialTemp sql.NullFloat64
		coolingRate sql.NullFloat64
		execMs      int64
		createdAt   string
	)
	sm := &r.Summary
	err := row.Scan(
		&r.ID, &sm.Algorithm, &sm.StopCount, &sm.Capacity, &initialTemp, &coolingRate,
		&sm.TotalTime, &sm.TotalDistance, &execMs, &sm.HeapGrowth, &sm.ReturnsToDepot,
		&sm.DeliveredUnits, &sm.OracleRequests, &sm.OracleFailures, &createdAt,
	)
	if err != nil {
		return domain.RouteResult{}, err
	}

	sm.Elapsed = time.Duration(execMs) * time.Millisecond
	if initialTemp.Valid || coolingRate.Valid {
		sm.Annealing = &domain.AnnealingStats{
			InitialTemperature: initialTemp.Float64,
			CoolingRate:        coolingRate.Float64,
		}
	}
	if t, err := time.Parse(createdAtLayout, createdAt); err == nil {
		r.CreatedAt = t
	}

	r.Route.Algorithm = sm.Algorithm
	r.Route.Capacity = sm.Capacity
	return r, nil
}

// GetResult loads one result with its legs in driving order.
func (s *SQLResultRepository) GetResult(ctx context.Context, id string) (domain.RouteResult, error) {
	if s.DB == nil {
		return domain.RouteResult{}, errors.New("result repository: DB is nil")
	}

	q := s.Dialect.rebind("SELECT" + resultColumns + "FROM algorithm_results WHERE result_id = ?;")
	r, err := scanResult(s.DB.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RouteResult{}, fmt.Errorf("get result %s: %w", id, domain.ErrResultNotFound)
	}
	if err != nil {
		return domain.RouteResult{}, fmt.Errorf("get result %s: scan summary: %w", id, err)
	}

	rows, err := s.DB.QueryContext(ctx, s.Dialect.rebind(`
	SELECT
		origin_id,
		destination_id,
		origin_lat,
		origin_lon,
		dest_lat,
		dest_lon,
		time_seconds,
		distance_meters,
		units
	FROM route_legs
	WHERE result_id = ?
	ORDER BY seq;
	`), id)
	if err != nil {
		return domain.RouteResult{}, fmt.Errorf("get result %s: query legs: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var l domain.RouteLeg
		err := rows.Scan(
			&l.OriginID, &l.DestinationID,
			&l.Origin.Lat, &l.Origin.Lon, &l.Destination.Lat, &l.Destination.Lon,
			&l.TimeSeconds, &l.DistanceMeters, &l.Units,
		)
		if err != nil {
			return domain.RouteResult{}, fmt.Errorf("get result %s: scan leg: %w", id, err)
		}
		r.Route.Legs = append(r.Route.Legs, l)
	}
	if err := rows.Err(); err != nil {
		return domain.RouteResult{}, fmt.Errorf("get result %s: leg iteration: %w", id, err)
	}

	if len(r.Route.Legs) > 0 {
		r.Route.DepotID = r.Route.Legs[0].OriginID
	}

	return r, nil
}

// ListResults returns the newest summaries first, without legs.
func (s *SQLResultRepository) ListResults(ctx context.Context, limit int) ([]domain.RouteResult, error) {
	if s.DB == nil {
		return nil, errors.New("result repository: DB is nil")
	}
	if limit <= 0 {
		limit = 50
	}

	q := s.Dialect.rebind("SELECT" + resultColumns + "FROM algorithm_results ORDER BY created_at DESC, result_id LIMIT ?;")
	rows, err := s.DB.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list results: query: %w", err)
	}
	defer rows.Close()

	out := make([]domain.RouteResult, 0, limit)
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("list results: scan row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list results: row iteration: %w", err)
	}

	return out, nil
}

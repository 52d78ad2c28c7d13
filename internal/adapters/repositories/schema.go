package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
)

// InitSchema creates the stop, distance cache, and result tables.
func InitSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	colType := d.realType()

	createStopsQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS stops (
		stop_id INTEGER PRIMARY KEY,
		lat %[1]s NOT NULL,
		lon %[1]s NOT NULL,
		demand INTEGER NOT NULL CHECK (demand >= 0)
	);
	`, colType)

	createDistanceCacheQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS distance_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        time_seconds %[1]s NOT NULL,
        distance_meters %[1]s NOT NULL,
        PRIMARY KEY (origin, destination)
    );
	`, colType)

	createResultsQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS algorithm_results (
		result_id TEXT PRIMARY KEY,
		algorithm TEXT NOT NULL,
		stop_count INTEGER NOT NULL,
		capacity INTEGER NOT NULL,
		initial_temperature %[1]s,
		cooling_rate %[1]s,
		total_time %[1]s NOT NULL,
		total_distance %[1]s NOT NULL,
		execution_ms BIGINT NOT NULL,
		heap_growth_bytes BIGINT NOT NULL,
		returns_to_depot INTEGER NOT NULL,
		delivered_units INTEGER NOT NULL,
		oracle_requests BIGINT NOT NULL,
		oracle_failures BIGINT NOT NULL,
		created_at TEXT NOT NULL
	);
	`, colType)

	createLegsQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS route_legs (
		result_id TEXT NOT NULL REFERENCES algorithm_results(result_id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		origin_id INTEGER NOT NULL,
		destination_id INTEGER NOT NULL,
		origin_lat %[1]s NOT NULL,
		origin_lon %[1]s NOT NULL,
		dest_lat %[1]s NOT NULL,
		dest_lon %[1]s NOT NULL,
		time_seconds %[1]s NOT NULL,
		distance_meters %[1]s NOT NULL,
		units INTEGER NOT NULL,
		PRIMARY KEY (result_id, seq)
	);
	`, colType)

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_distance_cache_destination_origin
    ON distance_cache(destination, origin);
	`

	statements := []string{
		createStopsQuery,
		createDistanceCacheQuery,
		createResultsQuery,
		createLegsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type StopSeed struct {
	StopID int     `json:"stop_id"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Demand int     `json:"demand"`
}

// SeedFromJSON upserts stops from a JSON file. The first entry is the depot
// by convention, so its demand is stored as zero.
func SeedFromJSON(ctx context.Context, db *sql.DB, d Dialect, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed stops: read %q: %w", jsonPath, err)
	}

	var data []StopSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed stops: parse json: %w", err)
	}

	return SeedStops(ctx, db, d, data)
}

func SeedStops(ctx context.Context, db *sql.DB, d Dialect, data []StopSeed) (int, error) {
	data = slices.Clone(data)
	seen := make(map[int]struct{}, len(data))
	for i, item := range data {
		if item.StopID <= 0 {
			return 0, fmt.Errorf("seed stops: invalid stop_id at index %d: %d", i+1, item.StopID)
		}
		if _, ok := seen[item.StopID]; ok {
			return 0, fmt.Errorf("seed stops: duplicate stop_id at index %d: %d", i+1, item.StopID)
		}
		seen[item.StopID] = struct{}{}

		if item.Demand < 0 {
			return 0, fmt.Errorf("seed stops: negative demand at index %d: %d", i+1, item.Demand)
		}
		if i == 0 {
			data[i].Demand = 0
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("seed stops: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := d.rebind(`
	INSERT INTO stops (
		stop_id,
		lat,
		lon,
		demand
	)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (stop_id) DO UPDATE
	SET lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		demand = EXCLUDED.demand;
	`)
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("seed stops: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range data {
		if _, err := stmt.ExecContext(ctx, s.StopID, s.Lat, s.Lon, s.Demand); err != nil {
			return 0, fmt.Errorf("seed stops: insert stop_id=%d: %w", s.StopID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed stops: commit tx: %w", err)
	}

	return len(data), nil
}

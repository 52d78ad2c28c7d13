package main

import (
	"context"
	"cvrp-route-service/internal/adapters/cache"
	"cvrp-route-service/internal/adapters/distance"
	"cvrp-route-service/internal/adapters/repositories"
	"cvrp-route-service/internal/config"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/platform/db"
	"cvrp-route-service/internal/platform/obs"
	"cvrp-route-service/internal/ports"
	"cvrp-route-service/internal/routing"
	"database/sql"
	"fmt"
	"net/http"
	"os"

	"github.com/go-kit/log/level"
)

// dbtool initializes the schema, seeds stops, and with WARM_CACHE=true
// resolves every stop pair into the persistent distance cache.
func main() {
	loadedEnv := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		level.Error(obs.Logger()).Log("msg", "load config failed", "err", err)
		os.Exit(1)
	}

	logger := obs.NewLogger(os.Stderr, cfg.LogLevel)
	obs.SetLogger(logger)
	if !loadedEnv {
		level.Info(logger).Log("msg", "no .env file found, using environment variables")
	}

	if err := run(context.Background(), cfg); err != nil {
		level.Error(logger).Log("msg", "dbtool failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	logger := obs.Logger()

	dialect, ok := repositories.ParseDialect(cfg.DBDriver)
	if !ok {
		return fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}

	var conn *sql.DB
	var err error
	if dialect == repositories.Postgres {
		conn, err = db.Open(cfg.DatabaseURL)
	} else {
		conn, err = db.OpenSQLite(cfg.DBPath)
	}
	if err != nil {
		return err
	}
	defer conn.Close()

	level.Info(logger).Log("msg", "initializing database schema", "driver", dialect)
	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		return fmt.Errorf("schema initialization: %w", err)
	}

	level.Info(logger).Log("msg", "seeding database", "path", cfg.SeedPath)
	n, err := repositories.SeedFromJSON(ctx, conn, dialect, cfg.SeedPath)
	if err != nil {
		return fmt.Errorf("seeding: %w", err)
	}
	level.Info(logger).Log("msg", "seeding complete", "stops", n)

	if !cfg.WarmCache {
		return nil
	}

	var store ports.DistanceCache
	if dialect == repositories.Postgres {
		store = cache.NewSQLDistanceCache(conn)
	} else {
		store = cache.NewSqliteDistanceCache(conn)
	}

	oracle, err := distance.Open(distance.Config{
		Kind:         cfg.Oracle,
		GoogleAPIKey: cfg.GoogleAPIKey,
		ORSAPIKey:    cfg.ORSAPIKey,
		ORSProfile:   cfg.ORSProfile,
		BaseURL:      cfg.OracleBaseURL,
		HaversineMPS: cfg.HaversineSpeed,
		ClientOptions: distance.ClientOptions{
			HTTPClient:        &http.Client{Timeout: cfg.OracleTimeout},
			RequestsPerSecond: cfg.OracleRPS,
			Burst:             cfg.OracleBurst,
		},
	}, store)
	if err != nil {
		return err
	}

	return warmCache(ctx, repositories.NewSQLStopRepository(conn, dialect), oracle, store, cfg.PrefetchWorkers)
}

// warmCache resolves every ordered pair of stored stops into store.
func warmCache(
	ctx context.Context,
	stops ports.StopRepository,
	oracle ports.TravelOracle,
	store ports.DistanceCache,
	workers int,
) error {
	all, err := stops.ListStops(ctx, 0)
	if err != nil {
		return fmt.Errorf("warm cache: %w", err)
	}

	points := make([]domain.Coordinates, 0, len(all))
	for _, s := range all {
		points = append(points, s.Coordinates)
	}

	m := routing.NewMeasurer(oracle, store)
	if err := m.Prefetch(ctx, points, workers); err != nil {
		return fmt.Errorf("warm cache: %w", err)
	}

	level.Info(obs.Logger()).Log("msg", "cache warm", "stops", len(points), "oracle_requests", m.Requests(), "oracle_failures", m.Failures())
	return nil
}

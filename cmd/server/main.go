package main

import (
	"context"
	"cvrp-route-service/internal/adapters/cache"
	"cvrp-route-service/internal/adapters/distance"
	"cvrp-route-service/internal/adapters/repositories"
	"cvrp-route-service/internal/api"
	"cvrp-route-service/internal/config"
	"cvrp-route-service/internal/platform/db"
	"cvrp-route-service/internal/platform/obs"
	"cvrp-route-service/internal/ports"
	"cvrp-route-service/internal/routing"
	"cvrp-route-service/internal/services"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters behind ports and starts the HTTP server.
func main() {
	loadedEnv := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		fatal(obs.Logger(), "load config", err)
	}

	logger := obs.NewLogger(os.Stderr, cfg.LogLevel)
	obs.SetLogger(logger)
	if !loadedEnv {
		level.Info(logger).Log("msg", "no .env file found, using environment variables")
	}

	obs.RegisterDefault()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, dialect, err := openDB(cfg)
	if err != nil {
		fatal(logger, "open database", err)
	}
	defer conn.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		fatal(logger, "init schema", err)
	}
	n, err := repositories.SeedFromJSON(ctx, conn, dialect, cfg.SeedPath)
	if err != nil {
		fatal(logger, "seed stops", err)
	}
	level.Info(logger).Log("msg", "stops seeded", "count", n, "path", cfg.SeedPath)

	distanceCache, persistent, rdb, err := buildCache(ctx, cfg, conn, dialect)
	if err != nil {
		fatal(logger, "build distance cache", err)
	}
	if rdb != nil {
		defer rdb.Close()
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
	}, persistent)
	if err != nil {
		fatal(logger, "open oracle", err)
	}

	tuning, err := config.LoadTuning(cfg.TuningPath)
	if err != nil {
		fatal(logger, "load tuning", err)
	}

	registry := routing.NewRegistry()
	results := repositories.NewSQLResultRepository(conn, dialect)
	planner := &services.Planner{
		Registry:        registry,
		Oracle:          oracle,
		Cache:           distanceCache,
		Stops:           repositories.NewSQLStopRepository(conn, dialect),
		Results:         results,
		Tuning:          tuning,
		LookupTimeout:   cfg.OracleTimeout,
		PrefetchWorkers: cfg.PrefetchWorkers,
	}

	router := api.NewRouter(planner, registry, results)

	// Timeouts are tuned for cold-cache route planning (external API latency).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		level.Info(logger).Log("msg", "server listening", "addr", srv.Addr, "oracle", cfg.Oracle, "cache", cfg.CacheBackend, "db", cfg.DBDriver)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			fatal(logger, "serve", err)
		}
	case <-ctx.Done():
		level.Info(logger).Log("msg", "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			level.Error(logger).Log("msg", "shutdown failed", "err", err)
		}
	}
}

func fatal(logger log.Logger, op string, err error) {
	level.Error(logger).Log("msg", op+" failed", "err", err)
	os.Exit(1)
}

func openDB(cfg config.Config) (*sql.DB, repositories.Dialect, error) {
	dialect, ok := repositories.ParseDialect(cfg.DBDriver)
	if !ok {
		return nil, "", fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}

	if dialect == repositories.Postgres {
		conn, err := db.Open(cfg.DatabaseURL)
		return conn, dialect, err
	}
	conn, err := db.OpenSQLite(cfg.DBPath)
	return conn, dialect, err
}

// buildCache returns the cache used by route computations and the persistent
// store backing the "store" oracle. The redis client is returned for closing.
func buildCache(
	ctx context.Context,
	cfg config.Config,
	conn *sql.DB,
	dialect repositories.Dialect,
) (ports.DistanceCache, ports.DistanceCache, *redis.Client, error) {
	var persistent ports.DistanceCache
	if dialect == repositories.Postgres {
		persistent = cache.NewSQLDistanceCache(conn)
	} else {
		persistent = cache.NewSqliteDistanceCache(conn)
	}

	front := cache.NewMemoryDistanceCache()
	obs.RegisterCacheSize(front.Len)

	switch cfg.CacheBackend {
	case "memory":
		return front, persistent, nil, nil
	case "redis":
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		back := cache.NewRedisDistanceCache(rdb, cfg.RedisTTL)
		return cache.NewTieredDistanceCache(front, back), persistent, rdb, nil
	default:
		return cache.NewTieredDistanceCache(front, persistent), persistent, nil, nil
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer: %w", key, v, err)
	}
	return n, nil
}

func GetFloat(key string, fallback float64) (float64, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a number: %w", key, v, err)
	}
	return f, nil
}

func GetDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a duration: %w", key, v, err)
	}
	return d, nil
}

func GetBool(key string, fallback bool) (bool, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s=%q is not a boolean: %w", key, v, err)
	}
	return b, nil
}

// Config is the process configuration read from the environment.
type Config struct {
	Port     string
	LogLevel string

	DBDriver    string
	DBPath      string
	DatabaseURL string
	SeedPath    string

	Oracle          string
	GoogleAPIKey    string
	ORSAPIKey       string
	ORSProfile      string
	OracleBaseURL   string
	OracleTimeout   time.Duration
	OracleRPS       float64
	OracleBurst     int
	HaversineSpeed  float64
	PrefetchWorkers int

	CacheBackend string
	RedisURL     string
	RedisTTL     time.Duration

	TuningPath string
	WarmCache  bool
}

// LoadDotEnv reads .env into the environment when the file exists.
// It reports whether a file was loaded.
func LoadDotEnv() bool {
	return godotenv.Load() == nil
}

// Load reads and validates the configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		Port:          Get("PORT", "8080"),
		LogLevel:      Get("LOG_LEVEL", "info"),
		DBDriver:      strings.ToLower(Get("DB_DRIVER", "sqlite")),
		DBPath:        Get("DB_PATH", "data/app.db"),
		DatabaseURL:   Get("DATABASE_URL", ""),
		SeedPath:      Get("SEED_PATH", "data/seeds/stops.json"),
		Oracle:        strings.ToLower(Get("ORACLE", "haversine")),
		GoogleAPIKey:  Get("GOOGLE_MAPS_API_KEY", ""),
		ORSAPIKey:     Get("ORS_API_KEY", ""),
		ORSProfile:    Get("ORS_PROFILE", "driving-car"),
		OracleBaseURL: Get("ORACLE_BASE_URL", ""),
		CacheBackend:  strings.ToLower(Get("CACHE_BACKEND", "sql")),
		RedisURL:      Get("REDIS_URL", ""),
		TuningPath:    Get("TUNING_PATH", ""),
	}

	var errs []error
	var err error

	if cfg.OracleTimeout, err = GetDuration("ORACLE_TIMEOUT", 10*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.OracleRPS, err = GetFloat("ORACLE_RPS", 0); err != nil {
		errs = append(errs, err)
	}
	if cfg.OracleBurst, err = GetInt("ORACLE_BURST", 1); err != nil {
		errs = append(errs, err)
	}
	if cfg.HaversineSpeed, err = GetFloat("HAVERSINE_SPEED_MPS", 0); err != nil {
		errs = append(errs, err)
	}
	if cfg.PrefetchWorkers, err = GetInt("PREFETCH_WORKERS", 5); err != nil {
		errs = append(errs, err)
	}
	if cfg.RedisTTL, err = GetDuration("REDIS_TTL", 0); err != nil {
		errs = append(errs, err)
	}
	if cfg.WarmCache, err = GetBool("WARM_CACHE", false); err != nil {
		errs = append(errs, err)
	}

	errs = append(errs, cfg.validate()...)
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}

	return cfg, nil
}

func (c Config) validate() []error {
	var errs []error

	switch c.DBDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("config: DATABASE_URL is required when DB_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: unknown DB_DRIVER %q", c.DBDriver))
	}

	switch c.Oracle {
	case "haversine", "store":
	case "google":
		if c.GoogleAPIKey == "" {
			errs = append(errs, errors.New("config: GOOGLE_MAPS_API_KEY is required when ORACLE=google"))
		}
	case "ors":
		if c.ORSAPIKey == "" {
			errs = append(errs, errors.New("config: ORS_API_KEY is required when ORACLE=ors"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: unknown ORACLE %q", c.Oracle))
	}

	switch c.CacheBackend {
	case "memory", "sql":
	case "redis":
		if c.RedisURL == "" {
			errs = append(errs, errors.New("config: REDIS_URL is required when CACHE_BACKEND=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: unknown CACHE_BACKEND %q", c.CacheBackend))
	}

	if c.PrefetchWorkers < 1 {
		errs = append(errs, fmt.Errorf("config: PREFETCH_WORKERS must be positive, got %d", c.PrefetchWorkers))
	}

	return errs
}

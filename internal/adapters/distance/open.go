package distance

import (
	"cvrp-route-service/internal/ports"
	"fmt"
	"strings"
)

// Config selects and configures a TravelOracle.
type Config struct {
	// Kind is one of google, ors, haversine, or store.
	Kind          string
	GoogleAPIKey  string
	ORSAPIKey     string
	ORSProfile    string
	BaseURL       string
	HaversineMPS  float64
	ClientOptions ClientOptions
}

// Open builds the oracle named by cfg.Kind. The store oracle reads from
// store, which must be a persistent distance cache.
func Open(cfg Config, store ports.DistanceCache) (ports.TravelOracle, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "google":
		o, err := NewGoogleMatrixOracle(cfg.GoogleAPIKey, cfg.BaseURL, cfg.ClientOptions)
		if err != nil {
			return nil, fmt.Errorf("open oracle: %w", err)
		}
		return o, nil
	case "ors":
		o, err := NewORSMatrixOracle(cfg.ORSAPIKey, cfg.BaseURL, cfg.ORSProfile, cfg.ClientOptions)
		if err != nil {
			return nil, fmt.Errorf("open oracle: %w", err)
		}
		return o, nil
	case "haversine", "":
		return NewHaversineOracle(cfg.HaversineMPS), nil
	case "store":
		o, err := NewStoreOracle(store)
		if err != nil {
			return nil, fmt.Errorf("open oracle: %w", err)
		}
		return o, nil
	}
	return nil, fmt.Errorf("open oracle: unknown kind %q", cfg.Kind)
}

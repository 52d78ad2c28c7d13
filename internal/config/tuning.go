package config

import (
	"cvrp-route-service/internal/routing"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type tierFile struct {
	MaxStops    int     `yaml:"max_stops"`
	CoolingRate float64 `yaml:"cooling_rate"`
}

type tuningFile struct {
	Annealing struct {
		InitialTemperature *float64   `yaml:"initial_temperature"`
		MinTemperature     *float64   `yaml:"min_temperature"`
		DefaultCoolingRate *float64   `yaml:"default_cooling_rate"`
		Tiers              []tierFile `yaml:"tiers"`
	} `yaml:"annealing"`
}

// LoadTuning reads the annealing schedule from a YAML file. Keys left out
// keep their defaults; an empty path returns the defaults.
func LoadTuning(path string) (routing.AnnealingTuning, error) {
	t := routing.DefaultAnnealingTuning()
	if path == "" {
		return t, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return routing.AnnealingTuning{}, fmt.Errorf("load tuning: read %q: %w", path, err)
	}

	var f tuningFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return routing.AnnealingTuning{}, fmt.Errorf("load tuning: parse %q: %w", path, err)
	}

	a := f.Annealing
	if a.InitialTemperature != nil {
		t.InitialTemperature = *a.InitialTemperature
	}
	if a.MinTemperature != nil {
		t.MinTemperature = *a.MinTemperature
	}
	if a.DefaultCoolingRate != nil {
		t.DefaultCoolingRate = *a.DefaultCoolingRate
	}
	if a.Tiers != nil {
		t.Tiers = make([]routing.CoolingTier, 0, len(a.Tiers))
		for _, tier := range a.Tiers {
			t.Tiers = append(t.Tiers, routing.CoolingTier{MaxStops: tier.MaxStops, CoolingRate: tier.CoolingRate})
		}
	}

	if err := t.Validate(); err != nil {
		return routing.AnnealingTuning{}, fmt.Errorf("load tuning %q: %w", path, err)
	}
	return t, nil
}

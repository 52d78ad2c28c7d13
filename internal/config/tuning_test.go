package config

import (
	"cvrp-route-service/internal/routing"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTuning(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadTuningEmptyPathReturnsDefaults(t *testing.T) {
	got, err := LoadTuning("")
	require.NoError(t, err)
	require.Equal(t, routing.DefaultAnnealingTuning(), got)
}

func TestLoadTuningOverridesKeys(t *testing.T) {
	path := writeTuning(t, `
annealing:
  initial_temperature: 5000
  tiers:
    - max_stops: 8
      cooling_rate: 0.005
    - max_stops: 32
      cooling_rate: 0.015
`)

	got, err := LoadTuning(path)
	require.NoError(t, err)

	require.Equal(t, 5000.0, got.InitialTemperature)
	require.Equal(t, 1.0, got.MinTemperature)
	require.Equal(t, 0.025, got.DefaultCoolingRate)
	require.Len(t, got.Tiers, 2)
	require.Equal(t, 0.015, got.CoolingRate(20))
}

func TestLoadTuningRejectsInvalidSchedule(t *testing.T) {
	path := writeTuning(t, `
annealing:
  initial_temperature: 0.5
`)

	_, err := LoadTuning(path)
	require.Error(t, err)
}

func TestLoadTuningRejectsBadYAML(t *testing.T) {
	_, err := LoadTuning(writeTuning(t, "annealing: [oops"))
	require.Error(t, err)

	_, err = LoadTuning(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestShippedTuningFileIsValid(t *testing.T) {
	got, err := LoadTuning(filepath.Join("..", "..", "configs", "tuning.yaml"))
	require.NoError(t, err)
	require.Equal(t, 0.01, got.CoolingRate(16))
}

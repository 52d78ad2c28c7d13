package cache

import (
	"context"
	"cvrp-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	phx   = domain.Coordinates{Lat: 33.4484, Lon: -112.074}
	tempe = domain.Coordinates{Lat: 33.4255, Lon: -111.94}
	mesa  = domain.Coordinates{Lat: 33.4152, Lon: -111.8315}
)

func TestMemoryDistanceCacheFirstWriterWins(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryDistanceCache()
	key := domain.NewPairKey(phx, tempe)

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Put(ctx, key, domain.TravelMeasurement{TimeSeconds: 900, DistanceMeters: 14000}))
	require.NoError(t, c.Put(ctx, key, domain.TravelMeasurement{TimeSeconds: 1, DistanceMeters: 1}))

	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, domain.TravelMeasurement{TimeSeconds: 900, DistanceMeters: 14000}, got)
	require.Equal(t, 1, c.Len())

	// Direction matters.
	_, ok, err = c.Get(ctx, domain.NewPairKey(tempe, phx))
	require.NoError(t, err)
	require.False(t, ok)
}

type failingCache struct{}

func (failingCache) Get(context.Context, domain.PairKey) (domain.TravelMeasurement, bool, error) {
	return domain.TravelMeasurement{}, false, context.DeadlineExceeded
}

func (failingCache) Put(context.Context, domain.PairKey, domain.TravelMeasurement) error {
	return context.DeadlineExceeded
}

func TestTieredDistanceCachePromotesPersistentHits(t *testing.T) {
	ctx := context.Background()
	front := NewMemoryDistanceCache()
	back := NewMemoryDistanceCache()
	c := NewTieredDistanceCache(front, back)

	key := domain.NewPairKey(phx, mesa)
	want := domain.TravelMeasurement{TimeSeconds: 1500, DistanceMeters: 25000}
	require.NoError(t, back.Put(ctx, key, want))

	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)
	require.Equal(t, 1, front.Len())

	other := domain.NewPairKey(mesa, phx)
	require.NoError(t, c.Put(ctx, other, want))
	require.Equal(t, 2, front.Len())
	require.Equal(t, 2, back.Len())
}

func TestTieredDistanceCacheDegradesOnPersistentFailure(t *testing.T) {
	ctx := context.Background()
	c := NewTieredDistanceCache(nil, failingCache{})
	key := domain.NewPairKey(phx, tempe)

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)

	err = c.Put(ctx, key, domain.TravelMeasurement{TimeSeconds: 1, DistanceMeters: 1})
	require.Error(t, err)

	// The memory layer still serves the value.
	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1.0, got.TimeSeconds)
}

func TestTieredDistanceCacheKeepsPersistentWinner(t *testing.T) {
	ctx := context.Background()
	front := NewMemoryDistanceCache()
	back := NewMemoryDistanceCache()
	c := NewTieredDistanceCache(front, back)

	key := domain.NewPairKey(tempe, mesa)
	first := domain.TravelMeasurement{TimeSeconds: 700, DistanceMeters: 10000}
	// Another process stored the pair before this one.
	require.NoError(t, back.Put(ctx, key, first))

	require.NoError(t, c.Put(ctx, key, domain.TravelMeasurement{TimeSeconds: 710, DistanceMeters: 10100}))

	got, ok, err := front.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, first, got)
}

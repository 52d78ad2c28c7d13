package cache

import (
	"context"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/platform/obs"
	"cvrp-route-service/internal/ports"
	"fmt"

	"github.com/go-kit/log/level"
)

// TieredDistanceCache serves reads from memory first and falls back to a
// persistent cache, promoting its hits. A failing persistent layer
// degrades to a miss instead of failing the lookup.
type TieredDistanceCache struct {
	front *MemoryDistanceCache
	back  ports.DistanceCache
}

func NewTieredDistanceCache(front *MemoryDistanceCache, back ports.DistanceCache) *TieredDistanceCache {
	if front == nil {
		front = NewMemoryDistanceCache()
	}
	return &TieredDistanceCache{front: front, back: back}
}

func (c *TieredDistanceCache) Get(ctx context.Context, key domain.PairKey) (domain.TravelMeasurement, bool, error) {
	if v, ok, _ := c.front.Get(ctx, key); ok {
		return v, true, nil
	}
	if c.back == nil {
		return domain.TravelMeasurement{}, false, nil
	}

	v, ok, err := c.back.Get(ctx, key)
	if err != nil {
		level.Warn(obs.Logger()).Log("msg", "persistent distance cache read failed", "pair", key.String(), "err", err)
		return domain.TravelMeasurement{}, false, nil
	}
	if !ok {
		return domain.TravelMeasurement{}, false, nil
	}

	_ = c.front.Put(ctx, key, v)
	return v, true, nil
}

// Put writes through to the persistent layer first. The value the
// persistent layer ends up holding is what gets promoted to memory, so a
// write lost to another process does not leave a diverging local copy.
func (c *TieredDistanceCache) Put(ctx context.Context, key domain.PairKey, m domain.TravelMeasurement) error {
	if c.back == nil {
		return c.front.Put(ctx, key, m)
	}

	if err := c.back.Put(ctx, key, m); err != nil {
		_ = c.front.Put(ctx, key, m)
		return fmt.Errorf("tiered distance cache: persist %s: %w", key, err)
	}

	winner, ok, err := c.back.Get(ctx, key)
	if err != nil || !ok {
		winner = m
	}
	return c.front.Put(ctx, key, winner)
}

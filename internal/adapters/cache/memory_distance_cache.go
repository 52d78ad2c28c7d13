package cache

import (
	"context"
	"cvrp-route-service/internal/domain"
	"sync"
)

// MemoryDistanceCache is a process-local cache. The first value stored for
// a key is kept; later writes for the same key are ignored.
type MemoryDistanceCache struct {
	mu sync.RWMutex
	m  map[domain.PairKey]domain.TravelMeasurement
}

func NewMemoryDistanceCache() *MemoryDistanceCache {
	return &MemoryDistanceCache{m: make(map[domain.PairKey]domain.TravelMeasurement)}
}

func (c *MemoryDistanceCache) Get(_ context.Context, key domain.PairKey) (domain.TravelMeasurement, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[key]
	return v, ok, nil
}

func (c *MemoryDistanceCache) Put(_ context.Context, key domain.PairKey, m domain.TravelMeasurement) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.m[key]; !ok {
		c.m[key] = m
	}
	return nil
}

func (c *MemoryDistanceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}


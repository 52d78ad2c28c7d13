package cache

import (
	"context"
	"cvrp-route-service/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const distanceKeyPrefix = "distance:"

type cachedMeasurement struct {
	TimeSeconds    float64 `json:"time_seconds"`
	DistanceMeters float64 `json:"distance_meters"`
}

// RedisDistanceCache shares measurements across processes. Writes use
// SETNX so the first writer wins; a zero TTL keeps entries forever.
type RedisDistanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDistanceCache(client *redis.Client, ttl time.Duration) *RedisDistanceCache {
	return &RedisDistanceCache{client: client, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}

	client := redis.NewClient(opts)

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return client, nil
}

func redisKey(key domain.PairKey) string {
	return distanceKeyPrefix + key.String()
}

func (c *RedisDistanceCache) Get(ctx context.Context, key domain.PairKey) (domain.TravelMeasurement, bool, error) {
	data, err := c.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.TravelMeasurement{}, false, nil
	}
	if err != nil {
		return domain.TravelMeasurement{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var cm cachedMeasurement
	if err := json.Unmarshal(data, &cm); err != nil {
		return domain.TravelMeasurement{}, false, fmt.Errorf("unmarshal cached measurement %s: %w", key, err)
	}

	return domain.TravelMeasurement{TimeSeconds: cm.TimeSeconds, DistanceMeters: cm.DistanceMeters}, true, nil
}

func (c *RedisDistanceCache) Put(ctx context.Context, key domain.PairKey, m domain.TravelMeasurement) error {
	data, err := json.Marshal(cachedMeasurement{TimeSeconds: m.TimeSeconds, DistanceMeters: m.DistanceMeters})
	if err != nil {
		return fmt.Errorf("marshal measurement %s: %w", key, err)
	}

	if err := c.client.SetNX(ctx, redisKey(key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis setnx %s: %w", key, err)
	}
	return nil
}

package cache

import (
	"aed-dispatch-service/internal/domain"
	"aed-dispatch-service/internal/platform/obs"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "aed:route:"

// RedisRouteCache stores routed paths in Redis with a TTL.
type RedisRouteCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRouteCache wraps client. A non-positive ttl keeps entries forever.
func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisRouteCache{client: client, ttl: ttl}
}

func routeKey(origin, destination domain.LatLng) string {
	return redisKeyPrefix + pointKey(origin) + "|" + pointKey(destination)
}

func (c *RedisRouteCache) Get(
	ctx context.Context,
	origin domain.LatLng,
	destination domain.LatLng,
) (_ []domain.LatLng, _ bool, err error) {
	defer obs.Time(ctx, "route.redis.Get")(&err)

	raw, err := c.client.Get(ctx, routeKey(origin, destination)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get redis route cache: %w", err)
	}

	path, err := decodePath(raw)
	if err != nil {
		return nil, false, fmt.Errorf("get redis route cache: %w", err)
	}
	return path, true, nil
}

func (c *RedisRouteCache) Put(
	ctx context.Context,
	origin domain.LatLng,
	destination domain.LatLng,
	path []domain.LatLng,
) error {
	if len(path) < 2 {
		return fmt.Errorf("put redis route cache: path has %d points", len(path))
	}

	raw, err := encodePath(path)
	if err != nil {
		return fmt.Errorf("put redis route cache: %w", err)
	}

	if err := c.client.Set(ctx, routeKey(origin, destination), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("put redis route cache: %w", err)
	}
	return nil
}

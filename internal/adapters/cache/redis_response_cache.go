package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"transit-reachability-service/internal/platform/obs"
	"transit-reachability-service/internal/ports"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "reachability:response:"

// RedisResponseCache stores raw transit API payloads in redis with native TTLs.
type RedisResponseCache struct {
	Client *redis.Client
}

func NewRedisResponseCache(client *redis.Client) *RedisResponseCache {
	return &RedisResponseCache{Client: client}
}

func (r *RedisResponseCache) Get(ctx context.Context, key string) (_ []byte, err error) {
	defer obs.Time(ctx, "response.cache.redis.Get")(&err)

	if r.Client == nil {
		return nil, errors.New("response cache: redis client is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.New("get response cache: key must not be empty")
	}

	payload, err := r.Client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ports.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get response cache: redis get: %w", err)
	}

	return payload, nil
}

func (r *RedisResponseCache) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if r.Client == nil {
		return errors.New("response cache: redis client is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("insert response cache: empty key")
	}

	if err := r.Client.Set(ctx, redisKeyPrefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("insert response cache key=%q: %w", key, err)
	}

	return nil
}

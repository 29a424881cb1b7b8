package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"council/internal/platform/redis"
	dErrors "council/pkg/domain-errors"
)

// RedisCache stores bill metadata as JSON values with a TTL, shared across
// service instances.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) (BillMetadata, bool, error) {
	raw, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return BillMetadata{}, false, nil
	}
	if err != nil {
		return BillMetadata{}, false, dErrors.Wrap(err, dErrors.CodeUnavailable, "bill cache get")
	}
	var metadata BillMetadata
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		// A corrupt value behaves like a miss and gets overwritten.
		return BillMetadata{}, false, nil
	}
	return metadata, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, metadata BillMetadata, ttl time.Duration) error {
	raw, err := json.Marshal(metadata)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "bill cache marshal")
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "bill cache set")
	}
	return nil
}

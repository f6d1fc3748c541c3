package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cognigen/cognigen-backend/internal/observability"
)

// PathCache stores serialized learning paths in redis.
type PathCache struct {
	rdb    goredis.Cmdable
	prefix string
}

func NewPathCache(rdb goredis.Cmdable, prefix string) *PathCache {
	if prefix == "" {
		prefix = "cg:"
	}
	return &PathCache{rdb: rdb, prefix: prefix}
}

func (c *PathCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if c == nil || c.rdb == nil {
		return nil, false, fmt.Errorf("redis path cache not initialized")
	}
	raw, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		observability.Current().IncPathCache("miss")
		return nil, false, nil
	}
	if err != nil {
		observability.Current().IncPathCache("error")
		return nil, false, err
	}
	observability.Current().IncPathCache("hit")
	return raw, true, nil
}

func (c *PathCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("redis path cache not initialized")
	}
	return c.rdb.Set(ctx, c.prefix+key, value, ttl).Err()
}

func (c *PathCache) Delete(ctx context.Context, keys ...string) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("redis path cache not initialized")
	}
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, c.prefix+k)
	}
	return c.rdb.Del(ctx, full...).Err()
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yatube/internal/adapter/out/cache"

	"github.com/redis/go-redis/v9"
)

type PageCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func New(client redis.Cmdable, ttl time.Duration) *PageCache {
	return &PageCache{client: client, ttl: ttl}
}

func (c *PageCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, cache.ErrMiss
		}
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	return b, nil
}

// Set is a no-op for a non-positive ttl; redis would keep the key forever.
func (c *PageCache) Set(ctx context.Context, key string, val []byte) error {
	if c.ttl <= 0 {
		return nil
	}
	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

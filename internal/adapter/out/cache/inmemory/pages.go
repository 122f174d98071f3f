package inmemory

import (
	"context"
	"time"

	"yatube/internal/adapter/out/cache"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const DefaultSize = 1024

// PageCache keeps rendered pages in process for a fixed ttl. A non-positive
// ttl stores nothing.
type PageCache struct {
	lru *expirable.LRU[string, []byte]
	ttl time.Duration
}

func New(size int, ttl time.Duration) *PageCache {
	if size <= 0 {
		size = DefaultSize
	}
	return &PageCache{lru: expirable.NewLRU[string, []byte](size, nil, ttl), ttl: ttl}
}

func (c *PageCache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := c.lru.Get(key)
	if !ok {
		return nil, cache.ErrMiss
	}
	return v, nil
}

func (c *PageCache) Set(_ context.Context, key string, val []byte) error {
	if c.ttl <= 0 {
		return nil
	}
	c.lru.Add(key, val)
	return nil
}

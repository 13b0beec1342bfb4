package cache

import (
	"context"
	"time"
)

// NullCache backs the "none" cache backend and --no-cache. Every lookup is
// a miss, so each layout is computed by the engine. It does not implement
// [Clearer]; "masonry cache clear" reports caching as disabled instead.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache {
	return &NullCache{}
}

func (c *NullCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

func (c *NullCache) Delete(context.Context, string) error {
	return nil
}

func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)

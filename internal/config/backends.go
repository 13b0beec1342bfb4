package config

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/masonry/pkg/cache"
	"github.com/matzehuels/masonry/pkg/store"
)

// connectTimeout bounds the initial ping of networked backends.
const connectTimeout = 5 * time.Second

// OpenCache opens the configured cache backend together with its keyer.
// noCache forces the null cache regardless of configuration.
//
// A file cache whose directory cannot be determined degrades to no caching
// with a warning, as caching is never required for correctness.
func (c *Config) OpenCache(ctx context.Context, noCache bool, logger *log.Logger) (cache.Cache, cache.Keyer, error) {
	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if c.Cache.Namespace != "" {
		keyer = cache.NewScopedKeyer(keyer, c.Cache.Namespace+":")
	}
	if noCache {
		return cache.NewNullCache(), keyer, nil
	}

	switch c.Cache.Backend {
	case BackendNone:
		return cache.NewNullCache(), keyer, nil
	case BackendRedis:
		ctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			URL:  c.Cache.RedisURL,
			Addr: c.Cache.RedisAddr,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open redis cache: %w", err)
		}
		return rc, keyer, nil
	default:
		dir, err := c.CacheDir()
		if err != nil {
			logger.Warn("caching disabled", "error", err)
			return cache.NewNullCache(), keyer, nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, nil, err
		}
		return fc, keyer, nil
	}
}

// CacheTTL returns the configured cache lifetime.
func (c *Config) CacheTTL() time.Duration {
	if c.Cache.TTL <= 0 {
		return cache.DefaultTTL
	}
	return c.Cache.TTL
}

// OpenStore opens the layout history. With a Mongo URI it connects to
// MongoDB. Otherwise fallback decides: the CLI passes a file store rooted at
// HistoryDir, the server an in-memory store.
func (c *Config) OpenStore(ctx context.Context, fallback func() (store.Store, error)) (store.Store, error) {
	if c.Store.MongoURI == "" {
		return fallback()
	}
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	ms, err := store.NewMongoStore(ctx, store.MongoConfig{
		URI:        c.Store.MongoURI,
		Database:   c.Store.Database,
		Collection: c.Store.Collection,
	})
	if err != nil {
		return nil, fmt.Errorf("open mongo store: %w", err)
	}
	return ms, nil
}

// FileHistory returns a fallback for OpenStore that keeps history on disk.
func (c *Config) FileHistory() func() (store.Store, error) {
	return func() (store.Store, error) {
		dir, err := c.HistoryDir()
		if err != nil {
			return nil, err
		}
		return store.NewFileStore(dir)
	}
}

// MemoryHistory is a fallback for OpenStore that keeps history in memory.
func MemoryHistory() (store.Store, error) {
	return store.NewMemoryStore(), nil
}

// Package cache stores computed layouts so identical requests skip the
// engine.
//
// Two pieces work together:
//   - [Cache] is a byte store with TTLs. [FileCache] backs the CLI,
//     [RedisCache] backs the server, [NullCache] disables caching.
//   - [Keyer] derives cache keys from an item-set hash and the layout
//     options, so a change to either produces a new key.
//
// Values are opaque to this package; the pipeline encodes results with
// package codec before storing them.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value byte store with optional expiration.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil); errors
	// are reserved for backend failures.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// DefaultTTL is how long layouts stay cached unless configured otherwise.
const DefaultTTL = 7 * 24 * time.Hour

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey returns the key for a layout of the item set identified
	// by itemsHash under opts.
	LayoutKey(itemsHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts holds every option that changes layout output.
type LayoutKeyOpts struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	BaseSize  float64 `json:"base_size"`
	Gap       float64 `json:"gap"`
	Looseness float64 `json:"looseness"`
	Grid      bool    `json:"grid"`
}

// DefaultKeyer hashes options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(itemsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", itemsHash, opts)
}

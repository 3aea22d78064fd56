// Package cache stores compiled layouts and rendered artifacts.
//
// Compiling a loop diagram is deterministic: the same source with the same
// layout options always yields the same diagram. The pipeline therefore keys
// layouts by a hash of the source and the layout options, and artifacts by
// the hash of the layout plus the render options.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared cache for multi-instance servers
//   - [MongoCache]: document store, used when diagrams should outlive TTLs
//   - [NullCache]: caching disabled
//
// # Keys
//
// A [Keyer] builds keys from hashes and option structs. [ScopedKeyer] adds a
// prefix so several tenants can share one backend.
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.LayoutKey(cache.Hash(src), cache.LayoutKeyOpts{VizType: "loop"})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// Default lifetimes for cached entries.
const (
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
	DiagramTTL  = 30 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss with ok == false and a nil error. A ttl of zero means
// the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

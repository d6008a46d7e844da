// Package cache stores rendered figures so identical markers are not drawn
// twice across runs.
//
// # Backends
//
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON entry per key under a local directory (CLI)
//   - [RedisCache]: shared cache for the HTTP server and workers
//
// # Keys
//
// Keys come from a [Keyer] so that every entry point derives the same key for
// the same figure. The key covers the figure spec and everything that changes
// its bytes (theme, caption):
//
//	key := keyer.FigureKey(spec.Kind, spec, cache.FigureKeyOpts{Theme: th.Fingerprint()})
//
// [ScopedKeyer] prefixes keys, for example per blog.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Default expirations.
const (
	// TTLFigure keeps rendered SVG. Renders are deterministic, so this only
	// bounds disk and memory use.
	TTLFigure = 30 * 24 * time.Hour

	// TTLDocument keeps expanded documents, which depend on store URLs.
	TTLDocument = 24 * time.Hour
)

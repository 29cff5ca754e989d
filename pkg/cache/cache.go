// Package cache stores rendered diagram artifacts keyed by their DOT source.
//
// Rendering a deployment through Graphviz is the slow step of the pipeline.
// Because the DOT source fully determines the image, the pipeline hashes it
// and looks up the artifact for each requested format before invoking
// Graphviz again.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON entry per key under a directory (CLI default)
//   - [RedisCache]: shared cache for the preview server
//   - [NullCache]: disables caching (--no-cache)
//
// Backend failures are never fatal to callers; the pipeline logs them and
// treats the lookup as a miss.
package cache

import (
	"context"
	"time"
)

// Cache is the interface implemented by all artifact cache backends.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found
	// and not expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DefaultTTL is how long rendered artifacts stay cached.
const DefaultTTL = 7 * 24 * time.Hour

package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Clearer is implemented by backends that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// Options selects and configures a backend for [Open].
type Options struct {
	Backend  string
	Dir      string // file backend
	RedisURL string // redis backend
	Prefix   string // redis backend
}

// Open constructs the cache backend named by opts.Backend.
// An empty backend selects the file cache.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendFile:
		if opts.Dir == "" {
			return nil, fmt.Errorf("%w: file backend needs a directory", ErrInvalidBackend)
		}
		return NewFileCache(opts.Dir)
	case BackendRedis:
		return NewRedisCache(ctx, RedisConfig{URL: opts.RedisURL, Prefix: opts.Prefix})
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidBackend, opts.Backend)
	}
}

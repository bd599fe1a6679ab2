package services

import (
	"context"
	"time"
)

// Cache defines the interface for caching operations.
type Cache interface {
	// Ping tests the cache connection
	Ping(ctx context.Context) error

	// Set stores a key-value pair with optional expiration
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error

	// Get retrieves a value by key. A missing key returns an empty
	// string, not an error.
	Get(ctx context.Context, key string) (string, error)

	// Del deletes one or more keys
	Del(ctx context.Context, keys ...string) error

	// Incr atomically increments a counter key, setting its expiration
	// on first use. Used by the fixed-window rate limiter.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)

	// Close closes the cache connection
	Close() error
}

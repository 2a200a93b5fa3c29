// Package cache keeps read-mostly reference data close to the handlers.
// Business records are never cached.
package cache

import (
	"context"
	"time"
)

// Store is a byte-oriented key/value cache with per-key TTL
type Store interface {
	// Get returns the value and true, or false when the key is missing or expired
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePrefix removes every key starting with prefix
	DeletePrefix(ctx context.Context, prefix string) error
	Close() error
}

// Package cache keeps recently read aggregates close to the stores.
// Two backends are provided: an in-process one (go-cache) and Redis.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns ErrMiss when the key is not present.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value. A zero ttl uses the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

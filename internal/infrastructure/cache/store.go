// Package cache provides the read-through memoization used by the remote clients.
package cache

import (
	"context"
	"time"
)

// Store is a byte-oriented key/value store with per-entry expiry
type Store interface {
	// Get returns the value for key, or ok=false when absent or expired
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value under key for ttl
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Clear removes every entry
	Clear(ctx context.Context) error

	// Close releases the store's resources
	Close() error
}

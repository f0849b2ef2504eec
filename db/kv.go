// db/kv.go
package db

import (
	"context"
	"time"
)

// KVStore is the shared key-value store behind the metadata cache, the rate
// counters and the cached key sets. Implementations must make Increment
// atomic across processes.
type KVStore interface {
	// Get returns the stored value and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete succeeds when the key is already absent.
	Delete(ctx context.Context, key string) error
	// Increment adds one to the counter at key, treating a missing counter as
	// zero, sets its expiry to ttl and returns the new value.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

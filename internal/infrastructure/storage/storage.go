// Package storage provides the key-value persistence behind the session
// layer. Implementations swallow backend failures: a failed read reports
// absence and a failed write is dropped, so guard logic upstream never has
// to handle a storage error.
package storage

import (
	"context"
	"time"
)

// Store is a TTL-aware key-value store.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores value under key. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string)
}

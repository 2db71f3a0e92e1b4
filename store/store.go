// Package store defines the backing-store abstraction used by freshcache.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the same []byte that was previously passed to Set for a key. If a store
// performs internal transforms they MUST be fully reversed. Foreign writes
// under a cache's keyspace may be treated as corruption and deleted.
package store

import (
	"context"
	"time"
)

// Store is a minimal namespaced byte store with TTLs. Must be safe for
// concurrent use. Per-key Set/Del are assumed atomic.
type Store interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL. ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	// Clear removes every key under prefix.
	Clear(ctx context.Context, prefix string) error

	// Close releases resources.
	Close(ctx context.Context) error
}

// PubSub is the store's broadcast facility, used for cross-process change
// notification. Delivery is best-effort and at-most-once.
type PubSub interface {
	// Publish sends payload to every remote subscriber of channel.
	Publish(ctx context.Context, channel string, payload []byte) error

	// Subscribe delivers messages for channels matching pattern (a literal
	// prefix followed by '*') to handler. Handler is called from a
	// background goroutine. The returned stop function unsubscribes and
	// releases the subscription.
	Subscribe(ctx context.Context, pattern string, handler func(channel string, payload []byte)) (stop func() error, err error)
}

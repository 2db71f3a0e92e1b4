package freshcache

import (
	"context"
	"time"

	"github.com/unqo/freshcache/codec"
	"github.com/unqo/freshcache/local"
	"github.com/unqo/freshcache/refresh"
)

// Loader fetches a value from the source of truth (a database query, a
// downstream call). ok=false reports that the source legitimately has no
// value for the key, as opposed to a fetch failure.
type Loader[V any] func(ctx context.Context) (v V, ok bool, err error)

// Cache is a read-through, remote-store-backed cache for values of type V.
// Keys are arbitrary and canonicalized internally.
//
// Every operation except the synchronous loader call inside GetOrLoad is
// fail-open: store failures are logged and degrade to a miss or no-op, they
// never surface to the caller.
type Cache[V any] interface {
	// Name returns the cache's logical name (its store namespace).
	Name() string

	// Lookup returns the cached entry for key: Present, Absent (a cached
	// null) or NotFound. Never fails; store and serialization errors are
	// logged and reported as NotFound.
	Lookup(ctx context.Context, key any) Value[V]

	// GetOrLoad is the read-through operation. On miss it invokes loader
	// (the loader's error is the only error that propagates), caches the
	// result and returns it. On hit it returns the cached value
	// immediately and may schedule an asynchronous refresh per the
	// refresh policy; the refresh outcome never affects this call.
	// ok=false means the value is absent (cached or freshly loaded).
	GetOrLoad(ctx context.Context, key any, loader Loader[V]) (v V, ok bool, err error)

	// GetWithFallback prefers the source of truth: loader first, cache as
	// the degradation path. On loader success the result is written
	// through; on loader failure the cached value is returned if any,
	// otherwise the loader's error.
	GetWithFallback(ctx context.Context, key any, loader Loader[V]) (v V, ok bool, err error)

	// Put writes value through to the store and publishes a PUT change
	// event. Inside an active tx scope the write is deferred to after
	// commit. Never fails the caller.
	Put(ctx context.Context, key any, value V)

	// PutAbsent caches the absence of a value. No-op unless cache-null is
	// enabled for this cache.
	PutAbsent(ctx context.Context, key any)

	// Evict removes the entry immediately and publishes an EVICT change
	// event. Inside an active tx scope a second eviction runs after
	// commit. Never fails the caller.
	Evict(ctx context.Context, key any)

	// Clear removes every entry in this cache's namespace.
	Clear(ctx context.Context)

	// Stats returns an immutable snapshot of the cache's counters.
	Stats() StatsSnapshot
}

// Options configure one named cache. Only Name is required; unset fields
// fall back to the manager defaults and are fully resolved at construction.
type Options[V any] struct {
	// Name is the cache's logical name. It prefixes every storage key and
	// names the pub/sub topic; must be unique per manager.
	Name string

	// Codec overrides value serialization. nil => codec.JSON[V].
	Codec codec.Codec[V]

	// CacheNull overrides the manager default for caching absent values.
	CacheNull *bool

	// Compress overrides the manager default for gzip-wrapping the codec.
	Compress *bool

	// TTL overrides the manager default entry lifetime. 0 falls back; a
	// negative value means no expiry.
	TTL time.Duration

	// RefreshPolicy overrides the manager-wide policy for this cache.
	RefreshPolicy refresh.Policy

	// Local is an optional in-process near-cache consulted before the
	// remote store and invalidated by change events. The cache takes
	// ownership and closes it with the manager.
	Local local.Local

	// Equal is the structural equality used by compare-then-refresh when
	// the policy selects the equal-function strategy. nil =>
	// reflect.DeepEqual.
	Equal func(a, b V) bool
}

// New builds a cache on m and registers it under opts.Name.
func New[V any](m *Manager, opts Options[V]) (Cache[V], error) {
	return newCache[V](m, opts)
}

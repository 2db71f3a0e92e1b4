// Package freshcache implements a remote-store-backed read-through cache
// with refresh-ahead and cross-process invalidation.
//
// Components:
//   - store.Store: namespaced byte store with TTLs (e.g. Redis, in-memory).
//   - codec.Codec[V]: (de)serializes V <-> []byte.
//   - refresh.Policy: decides per key whether a hit triggers an async
//     refresh on the manager's shared bounded worker pool.
//   - event: PUT/EVICT change events, fanned out to local listeners and
//     broadcast over the store's pub/sub so other processes invalidate
//     their near-caches.
//   - tx: ambient transaction scope; Put/Evict inside a scope defer the
//     mutation to after commit.
//
// Error containment is fail-open: a store outage degrades every cache to
// "always miss, always call the loader". The only failure a caller ever
// sees is its own loader's error on the synchronous miss path of
// GetOrLoad.
//
// Read-through pattern:
//
//	m, _ := freshcache.NewManager(freshcache.ManagerOptions{Store: st})
//	users, _ := freshcache.New[User](m, freshcache.Options[User]{Name: "user"})
//	u, ok, err := users.GetOrLoad(ctx, id, func(ctx context.Context) (User, bool, error) {
//	    return repo.FindUser(ctx, id)
//	})
package freshcache

package freshcache

import (
	"bytes"
	"context"
	"reflect"
	"time"

	"github.com/unqo/freshcache/codec"
	"github.com/unqo/freshcache/event"
	"github.com/unqo/freshcache/internal/keys"
	"github.com/unqo/freshcache/internal/wire"
	"github.com/unqo/freshcache/local"
	"github.com/unqo/freshcache/refresh"
	"github.com/unqo/freshcache/store"
	"github.com/unqo/freshcache/tx"
)

type cache[V any] struct {
	name         string
	mgr          *Manager
	store        store.Store
	codec        codec.Codec[V]
	log          Logger
	stats        statsCounter
	cacheNull    bool
	ttl          time.Duration
	policy       refresh.Policy
	globalPolicy bool
	near         local.Local
	equal        func(a, b V) bool
}

var _ Cache[struct{}] = (*cache[struct{}])(nil)

func newCache[V any](m *Manager, opts Options[V]) (*cache[V], error) {
	if m == nil {
		return nil, ErrManagerRequired
	}
	if opts.Name == "" {
		return nil, ErrNameRequired
	}

	c := &cache[V]{
		name:  opts.Name,
		mgr:   m,
		store: m.store,
		log:   m.log,
		near:  opts.Local,
	}

	// resolve every effective setting now; no further fallback at runtime
	var eff codec.Codec[V] = codec.JSON[V]{}
	if opts.Codec != nil {
		eff = opts.Codec
	}
	if resolveFlag(opts.Compress, m.compress) {
		if _, already := eff.(codec.Gzip[V]); !already {
			eff = codec.NewGzip(eff)
		}
	}
	c.codec = eff

	c.cacheNull = resolveFlag(opts.CacheNull, m.cacheNull)

	c.ttl = opts.TTL
	if c.ttl == 0 {
		c.ttl = m.defaultTTL
	}
	if c.ttl < 0 {
		c.ttl = 0 // no expiry
	}

	c.globalPolicy = opts.RefreshPolicy == nil
	if c.globalPolicy {
		c.policy = m.policy
	} else {
		c.policy = opts.RefreshPolicy
	}

	if opts.Equal != nil {
		c.equal = opts.Equal
	} else {
		c.equal = func(a, b V) bool { return reflect.DeepEqual(a, b) }
	}

	if err := m.register(opts.Name, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *cache[V]) Name() string { return c.name }

func (c *cache[V]) Stats() StatsSnapshot { return c.stats.snapshot() }

func (c *cache[V]) storageKey(key string) string { return c.name + ":" + key }

func (c *cache[V]) Lookup(ctx context.Context, key any) Value[V] {
	return c.lookup(ctx, keys.Canonical(key))
}

func (c *cache[V]) lookup(ctx context.Context, key string) Value[V] {
	start := time.Now()
	val, err := c.read(ctx, key)
	if err != nil {
		c.stats.recordLoadFailure(time.Since(start))
		c.log.Warn("get value failed", Fields{"cache": c.name, "key": key, "err": err})
		return NotFound[V]()
	}
	c.stats.recordLoadSuccess(time.Since(start))
	if val.Found() {
		c.stats.recordHit()
	} else {
		c.stats.recordMiss()
	}
	return val
}

// read consults the near-cache, then the store, and unframes the entry.
// Corrupt or undecodable entries are deleted so the next read misses clean.
func (c *cache[V]) read(ctx context.Context, key string) (Value[V], error) {
	sk := c.storageKey(key)

	var raw []byte
	fromNear := false
	if c.near != nil {
		if b, ok := c.near.Get(sk); ok {
			raw = b
			fromNear = true
		}
	}
	if raw == nil {
		b, ok, err := c.store.Get(ctx, sk)
		if err != nil {
			return NotFound[V](), err
		}
		if !ok {
			return NotFound[V](), nil
		}
		raw = b
	}

	payload, absent, err := wire.Decode(raw)
	if err != nil {
		c.heal(ctx, sk, fromNear)
		return NotFound[V](), err
	}
	if absent {
		if c.near != nil && !fromNear {
			c.near.Set(sk, raw)
		}
		return Absent[V](), nil
	}
	v, err := c.codec.Decode(payload)
	if err != nil {
		c.heal(ctx, sk, fromNear)
		return NotFound[V](), err
	}
	if c.near != nil && !fromNear {
		c.near.Set(sk, raw)
	}
	return Present(v), nil
}

func (c *cache[V]) heal(ctx context.Context, storageKey string, fromNear bool) {
	if c.near != nil {
		c.near.Del(storageKey)
	}
	if !fromNear {
		_ = c.store.Del(ctx, storageKey)
	}
}

func (c *cache[V]) GetOrLoad(ctx context.Context, key any, loader Loader[V]) (V, bool, error) {
	k := keys.Canonical(key)
	cached := c.lookup(ctx, k)
	if cached.Found() {
		if c.mayRefresh(k) {
			c.scheduleRefresh(k, cached, loader)
		}
		v, ok := cached.Get()
		return v, ok, nil
	}

	v, ok, err := loader(ctx)
	if err != nil {
		var zero V
		return zero, false, err
	}
	c.putDeferred(ctx, k, loaded(v, ok))
	c.policy.RecordInit(c.globalPolicy, c.name, k)
	return v, ok, nil
}

func (c *cache[V]) GetWithFallback(ctx context.Context, key any, loader Loader[V]) (V, bool, error) {
	k := keys.Canonical(key)
	v, ok, err := loader(ctx)
	if err == nil {
		c.putDeferred(ctx, k, loaded(v, ok))
		return v, ok, nil
	}
	c.log.Warn("loader failed, falling back to cache", Fields{"cache": c.name, "key": k, "err": err})
	if cached := c.lookup(ctx, k); cached.Found() {
		cv, cok := cached.Get()
		return cv, cok, nil
	}
	var zero V
	return zero, false, err
}

func loaded[V any](v V, ok bool) Value[V] {
	if ok {
		return Present(v)
	}
	return Absent[V]()
}

func (c *cache[V]) Put(ctx context.Context, key any, value V) {
	c.putDeferred(ctx, keys.Canonical(key), Present(value))
}

func (c *cache[V]) PutAbsent(ctx context.Context, key any) {
	c.putDeferred(ctx, keys.Canonical(key), Absent[V]())
}

// putDeferred writes now, or after commit when a transaction scope is
// active in ctx.
func (c *cache[V]) putDeferred(ctx context.Context, key string, val Value[V]) {
	if sc := tx.FromContext(ctx); sc != nil {
		base := context.WithoutCancel(ctx)
		sc.AfterCommit(func() { c.putNow(base, key, val) })
		return
	}
	c.putNow(ctx, key, val)
}

// putNow writes through to the store, populates the near-cache and
// publishes a PUT event. Failures are logged, never returned: put must not
// break the caller.
func (c *cache[V]) putNow(ctx context.Context, key string, val Value[V]) bool {
	if _, present := val.Get(); !present && !c.cacheNull {
		return false
	}
	raw, err := c.encode(val)
	if err != nil {
		c.log.Warn("save value failed", Fields{"cache": c.name, "key": key, "err": err})
		return false
	}
	sk := c.storageKey(key)
	if err := c.store.Set(ctx, sk, raw, c.ttl); err != nil {
		c.log.Warn("save value failed", Fields{"cache": c.name, "key": key, "err": err})
		return false
	}
	if c.near != nil {
		c.near.Set(sk, raw)
	}
	c.mgr.publish(ctx, event.Event{Type: event.Put, Cache: c.name, Key: key})
	return true
}

func (c *cache[V]) encode(val Value[V]) ([]byte, error) {
	if v, ok := val.Get(); ok {
		payload, err := c.codec.Encode(v)
		if err != nil {
			return nil, err
		}
		return wire.EncodeValue(payload), nil
	}
	return wire.EncodeAbsent(), nil
}

func (c *cache[V]) Evict(ctx context.Context, key any) {
	k := keys.Canonical(key)
	c.evictNow(ctx, k)
	if sc := tx.FromContext(ctx); sc != nil {
		// evict again after commit: a concurrent reader may repopulate the
		// entry from pre-commit data between here and the commit point
		base := context.WithoutCancel(ctx)
		sc.AfterCommit(func() { c.evictNow(base, k) })
	}
}

func (c *cache[V]) evictNow(ctx context.Context, key string) {
	c.stats.recordEviction()
	sk := c.storageKey(key)
	if c.near != nil {
		c.near.Del(sk)
	}
	if err := c.store.Del(ctx, sk); err != nil {
		c.log.Warn("evict value failed", Fields{"cache": c.name, "key": key, "err": err})
		return
	}
	c.mgr.publish(ctx, event.Event{Type: event.Evict, Cache: c.name, Key: key})
}

func (c *cache[V]) Clear(ctx context.Context) {
	c.log.Info("cache clear start", Fields{"cache": c.name})
	if c.near != nil {
		c.near.Clear()
	}
	if err := c.store.Clear(ctx, c.name+":"); err != nil {
		c.log.Error("cache clear failed", Fields{"cache": c.name, "err": err})
		return
	}
	c.log.Info("cache clear success", Fields{"cache": c.name})
}

// mayRefresh consults the policy; a panicking policy fails safe to "do not
// refresh".
func (c *cache[V]) mayRefresh(key string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Warn("refresh policy failed", Fields{"cache": c.name, "key": key, "panic": r})
			ok = false
		}
	}()
	return c.policy.MayRefresh(c.globalPolicy, c.name, key)
}

// scheduleRefresh submits a compare-then-refresh task to the manager's
// shared pool. The triggering read has already returned its value; nothing
// here may surface to any caller.
func (c *cache[V]) scheduleRefresh(key string, old Value[V], loader Loader[V]) {
	task := func() {
		defer func() {
			if r := recover(); r != nil {
				c.log.Warn("refresh failed", Fields{"cache": c.name, "key": key, "panic": r})
			}
		}()
		ctx := context.Background()
		c.log.Debug("start refresh", Fields{"cache": c.name, "key": key})
		v, ok, err := loader(ctx)
		if err != nil {
			c.log.Warn("refresh failed", Fields{"cache": c.name, "key": key, "err": err})
			return
		}
		next := loaded(v, ok)
		eq, err := c.equalValues(old, next)
		if err != nil {
			c.log.Warn("refresh compare failed", Fields{"cache": c.name, "key": key, "err": err})
			return
		}
		if eq {
			c.log.Debug("no change", Fields{"cache": c.name, "key": key})
			return
		}
		c.putNow(ctx, key, next)
		c.log.Info("refresh success", Fields{"cache": c.name, "key": key})
	}
	if !c.mgr.exec.Submit(task) {
		c.log.Debug("refresh dropped, queue full", Fields{"cache": c.name, "key": key})
	}
}

// equalValues applies the policy-selected equality: the structural equal
// function, or canonical codec bytes. Equal values suppress the refresh
// write and its change event.
func (c *cache[V]) equalValues(a, b Value[V]) (bool, error) {
	if a.State() != b.State() {
		return false, nil
	}
	av, present := a.Get()
	if !present {
		return true, nil // both absent
	}
	bv, _ := b.Get()
	if c.policy.UseEqualFunction() {
		return c.equal(av, bv), nil
	}
	ab, err := c.codec.Encode(av)
	if err != nil {
		return false, err
	}
	bb, err := c.codec.Encode(bv)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ab, bb), nil
}

// dropLocal and closeLocal are the manager's non-generic handle into this
// cache's near-cache.
func (c *cache[V]) dropLocal(key string) {
	if c.near != nil {
		c.near.Del(c.storageKey(key))
	}
}

func (c *cache[V]) closeLocal() {
	if c.near != nil {
		c.near.Close()
	}
}

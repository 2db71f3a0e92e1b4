// Package refresh decides when a cache hit should trigger an asynchronous
// reload of the entry, and runs those reloads on a bounded shared pool.
package refresh

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
)

// Policy is consulted by the cache engine on every hit. global reports
// whether this policy instance is the manager-wide default shared by all
// caches; shared policies key their per-key state by (cache, key) so two
// caches never collide.
//
// Implementations must be safe for concurrent use. Concurrent hits on the
// same key must not schedule an unbounded number of refreshes: MayRefresh
// advances its per-key marker with a compare-and-swap before returning
// true, so at most one caller wins per interval.
type Policy interface {
	// MayRefresh reports whether a hit on key should trigger a background
	// refresh now.
	MayRefresh(global bool, cache, key string) bool

	// RecordInit marks key as policy-tracked after a miss-then-load.
	RecordInit(global bool, cache, key string)

	// UseEqualFunction selects the equality strategy for the engine's
	// compare-then-refresh step: true means structural equality, false
	// means canonical-serialization equality.
	UseEqualFunction() bool
}

// Disabled never refreshes. It is the manager default.
type Disabled struct{}

func (Disabled) MayRefresh(bool, string, string) bool { return false }
func (Disabled) RecordInit(bool, string, string)      {}
func (Disabled) UseEqualFunction() bool               { return false }

// tracker stores per-key last-refresh instants as atomic unix nanos.
// Entries are never explicitly deleted; the map is bounded by the live
// keyspace of the caches sharing the policy.
type tracker struct {
	m sync.Map // state key -> *atomic.Int64
}

func (t *tracker) cell(k string) *atomic.Int64 {
	if c, ok := t.m.Load(k); ok {
		return c.(*atomic.Int64)
	}
	c, _ := t.m.LoadOrStore(k, new(atomic.Int64))
	return c.(*atomic.Int64)
}

// advance moves the cell forward to now, never backwards. A stale
// refresher can therefore not regress a newer marker.
func advance(c *atomic.Int64, now int64) {
	for {
		cur := c.Load()
		if now <= cur {
			return
		}
		if c.CompareAndSwap(cur, now) {
			return
		}
	}
}

func stateKey(global bool, cache, key string) string {
	if global {
		return cache + "\x00" + key
	}
	return key
}

// FixedInterval refreshes a key at most once per Interval. The first hit
// after the interval elapses wins the CAS and triggers the refresh;
// concurrent hits lose and return false.
type FixedInterval struct {
	interval time.Duration
	useEqual bool
	now      func() time.Time
	t        tracker
}

var _ Policy = (*FixedInterval)(nil)

func NewFixedInterval(interval time.Duration) *FixedInterval {
	return &FixedInterval{interval: interval, now: time.Now}
}

// WithEqualFunction makes the engine compare refreshed values with the
// structural equality function instead of canonical bytes.
func (p *FixedInterval) WithEqualFunction() *FixedInterval {
	p.useEqual = true
	return p
}

func (p *FixedInterval) MayRefresh(global bool, cache, key string) bool {
	c := p.t.cell(stateKey(global, cache, key))
	now := p.now().UnixNano()
	last := c.Load()
	if now-last < int64(p.interval) {
		return false
	}
	return c.CompareAndSwap(last, now)
}

func (p *FixedInterval) RecordInit(global bool, cache, key string) {
	advance(p.t.cell(stateKey(global, cache, key)), p.now().UnixNano())
}

func (p *FixedInterval) UseEqualFunction() bool { return p.useEqual }

// EarlyExpiry spreads refresh load instead of stampeding at expiry: the
// probability of refreshing ramps from 0 to 1 across the last Window
// fraction of TTL, and a hit past TTL always refreshes. Like
// FixedInterval, the winning hit CAS-advances the marker.
type EarlyExpiry struct {
	ttl      time.Duration
	window   float64
	useEqual bool
	now      func() time.Time
	randFn   func() float64
	t        tracker
}

var _ Policy = (*EarlyExpiry)(nil)

// NewEarlyExpiry builds an early-expiry policy. window is the trailing
// fraction of ttl inside which refreshes become probable; values outside
// (0,1] fall back to 0.2.
func NewEarlyExpiry(ttl time.Duration, window float64) *EarlyExpiry {
	if window <= 0 || window > 1 {
		window = 0.2
	}
	return &EarlyExpiry{
		ttl:    ttl,
		window: window,
		now:    time.Now,
		randFn: rand.Float64,
	}
}

// WithEqualFunction makes the engine compare refreshed values with the
// structural equality function instead of canonical bytes.
func (p *EarlyExpiry) WithEqualFunction() *EarlyExpiry {
	p.useEqual = true
	return p
}

func (p *EarlyExpiry) MayRefresh(global bool, cache, key string) bool {
	c := p.t.cell(stateKey(global, cache, key))
	now := p.now().UnixNano()
	last := c.Load()
	age := now - last
	if age < 0 {
		return false
	}
	frac := float64(age) / float64(p.ttl)
	if frac < 1 {
		start := 1 - p.window
		if frac <= start {
			return false
		}
		if p.randFn() >= (frac-start)/p.window {
			return false
		}
	}
	return c.CompareAndSwap(last, now)
}

func (p *EarlyExpiry) RecordInit(global bool, cache, key string) {
	advance(p.t.cell(stateKey(global, cache, key)), p.now().UnixNano())
}

func (p *EarlyExpiry) UseEqualFunction() bool { return p.useEqual }

package refresh

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledNeverRefreshes(t *testing.T) {
	p := Disabled{}
	assert.False(t, p.MayRefresh(true, "user", "k"))
	assert.False(t, p.UseEqualFunction())
}

func TestFixedIntervalFiresOncePerInterval(t *testing.T) {
	now := time.Unix(1000, 0)
	p := NewFixedInterval(time.Minute)
	p.now = func() time.Time { return now }

	p.RecordInit(true, "user", "k")
	assert.False(t, p.MayRefresh(true, "user", "k"), "within interval")

	now = now.Add(61 * time.Second)
	assert.True(t, p.MayRefresh(true, "user", "k"), "past interval")
	assert.False(t, p.MayRefresh(true, "user", "k"), "marker already advanced")

	now = now.Add(61 * time.Second)
	assert.True(t, p.MayRefresh(true, "user", "k"))
}

func TestFixedIntervalConcurrentHitsSingleWinner(t *testing.T) {
	now := time.Unix(1000, 0)
	p := NewFixedInterval(time.Minute)
	p.now = func() time.Time { return now }
	p.RecordInit(true, "user", "k")
	now = now.Add(2 * time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	fired := 0
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if p.MayRefresh(true, "user", "k") {
				mu.Lock()
				fired++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, fired, "exactly one concurrent hit wins the CAS")
}

func TestFixedIntervalScopesStateByCacheWhenGlobal(t *testing.T) {
	now := time.Unix(1000, 0)
	p := NewFixedInterval(time.Minute)
	p.now = func() time.Time { return now }

	now = now.Add(2 * time.Minute)
	assert.True(t, p.MayRefresh(true, "user", "k"))
	// same key under another cache has its own marker
	assert.True(t, p.MayRefresh(true, "order", "k"))
	assert.False(t, p.MayRefresh(true, "user", "k"))
}

func TestMarkerIsMonotonic(t *testing.T) {
	p := NewFixedInterval(time.Minute)
	now := time.Unix(2000, 0)
	p.now = func() time.Time { return now }
	p.RecordInit(false, "user", "k")

	// a stale init must not regress the marker
	now = time.Unix(1000, 0)
	p.RecordInit(false, "user", "k")

	now = time.Unix(2000, 30)
	assert.False(t, p.MayRefresh(false, "user", "k"), "marker regressed to stale time")
}

func TestEarlyExpiryRamp(t *testing.T) {
	now := time.Unix(1000, 0)
	p := NewEarlyExpiry(10*time.Minute, 0.2)
	p.now = func() time.Time { return now }
	p.randFn = func() float64 { return 0.5 }
	p.RecordInit(true, "user", "k")

	// young entry: before the window opens nothing fires
	now = now.Add(5 * time.Minute)
	assert.False(t, p.MayRefresh(true, "user", "k"))

	// deep in the window: frac 0.95 => probability 0.75 > rand 0.5
	now = now.Add(4*time.Minute + 30*time.Second)
	assert.True(t, p.MayRefresh(true, "user", "k"))
	assert.False(t, p.MayRefresh(true, "user", "k"), "marker advanced")
}

func TestEarlyExpiryAlwaysFiresPastTTL(t *testing.T) {
	now := time.Unix(1000, 0)
	p := NewEarlyExpiry(time.Minute, 0.2)
	p.now = func() time.Time { return now }
	p.randFn = func() float64 { return 0.999999 } // never pass the ramp
	p.RecordInit(true, "user", "k")

	now = now.Add(2 * time.Minute)
	assert.True(t, p.MayRefresh(true, "user", "k"))
}

func TestEqualFunctionFlag(t *testing.T) {
	assert.False(t, NewFixedInterval(time.Minute).UseEqualFunction())
	assert.True(t, NewFixedInterval(time.Minute).WithEqualFunction().UseEqualFunction())
	assert.True(t, NewEarlyExpiry(time.Minute, 0.2).WithEqualFunction().UseEqualFunction())
}

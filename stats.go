package freshcache

import (
	"sync/atomic"
	"time"
)

// statsCounter accumulates cache statistics using atomic counters for
// lock-free updates on the hot path.
type statsCounter struct {
	hits          atomic.Int64
	misses        atomic.Int64
	loadSuccesses atomic.Int64
	loadFailures  atomic.Int64
	totalLoadTime atomic.Int64 // nanoseconds
	evictions     atomic.Int64
}

func (s *statsCounter) recordHit()  { s.hits.Add(1) }
func (s *statsCounter) recordMiss() { s.misses.Add(1) }

func (s *statsCounter) recordLoadSuccess(d time.Duration) {
	s.loadSuccesses.Add(1)
	s.totalLoadTime.Add(int64(d))
}

func (s *statsCounter) recordLoadFailure(d time.Duration) {
	s.loadFailures.Add(1)
	s.totalLoadTime.Add(int64(d))
}

func (s *statsCounter) recordEviction() { s.evictions.Add(1) }

func (s *statsCounter) snapshot() StatsSnapshot {
	return StatsSnapshot{
		Hits:          s.hits.Load(),
		Misses:        s.misses.Load(),
		LoadSuccesses: s.loadSuccesses.Load(),
		LoadFailures:  s.loadFailures.Load(),
		TotalLoadTime: time.Duration(s.totalLoadTime.Load()),
		Evictions:     s.evictions.Load(),
	}
}

// StatsSnapshot is an immutable point-in-time copy of a cache's counters.
type StatsSnapshot struct {
	Hits          int64
	Misses        int64
	LoadSuccesses int64
	LoadFailures  int64
	TotalLoadTime time.Duration
	Evictions     int64
}

// HitRate returns the hit rate as a value between 0 and 1.
// Returns 0 if there have been no lookups.
func (s StatsSnapshot) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// AverageLoadPenalty returns the mean time spent on store round trips.
func (s StatsSnapshot) AverageLoadPenalty() time.Duration {
	total := s.LoadSuccesses + s.LoadFailures
	if total == 0 {
		return 0
	}
	return s.TotalLoadTime / time.Duration(total)
}

// Package metrics exports cache statistics snapshots as a prometheus
// collector. The caches keep owning the counters; the collector reads a
// snapshot at scrape time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/unqo/freshcache"
)

// Source is any cache-like object exposing a stats snapshot. Cache[V]
// satisfies it.
type Source interface {
	Name() string
	Stats() freshcache.StatsSnapshot
}

type Collector struct {
	sources []Source

	hits          *prometheus.Desc
	misses        *prometheus.Desc
	loadSuccesses *prometheus.Desc
	loadFailures  *prometheus.Desc
	loadSeconds   *prometheus.Desc
	evictions     *prometheus.Desc
	hitRate       *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector builds a collector over the given caches. Register it with
// a prometheus registry; each metric carries a "cache" label.
func NewCollector(sources ...Source) *Collector {
	label := []string{"cache"}
	return &Collector{
		sources:       sources,
		hits:          prometheus.NewDesc("freshcache_hits_total", "Cache lookups that found an entry.", label, nil),
		misses:        prometheus.NewDesc("freshcache_misses_total", "Cache lookups that found no entry.", label, nil),
		loadSuccesses: prometheus.NewDesc("freshcache_load_successes_total", "Successful store round trips.", label, nil),
		loadFailures:  prometheus.NewDesc("freshcache_load_failures_total", "Failed store round trips.", label, nil),
		loadSeconds:   prometheus.NewDesc("freshcache_load_seconds_total", "Total time spent on store round trips.", label, nil),
		evictions:     prometheus.NewDesc("freshcache_evictions_total", "Evictions issued against the cache.", label, nil),
		hitRate:       prometheus.NewDesc("freshcache_hit_rate", "Hit rate between 0 and 1.", label, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.loadSuccesses
	ch <- c.loadFailures
	ch <- c.loadSeconds
	ch <- c.evictions
	ch <- c.hitRate
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, src := range c.sources {
		name := src.Name()
		s := src.Stats()
		ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits), name)
		ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses), name)
		ch <- prometheus.MustNewConstMetric(c.loadSuccesses, prometheus.CounterValue, float64(s.LoadSuccesses), name)
		ch <- prometheus.MustNewConstMetric(c.loadFailures, prometheus.CounterValue, float64(s.LoadFailures), name)
		ch <- prometheus.MustNewConstMetric(c.loadSeconds, prometheus.CounterValue, s.TotalLoadTime.Seconds(), name)
		ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions), name)
		ch <- prometheus.MustNewConstMetric(c.hitRate, prometheus.GaugeValue, s.HitRate(), name)
	}
}

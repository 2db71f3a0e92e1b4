// Package ristretto adapts dgraph-io/ristretto as a freshcache near-cache.
package ristretto

import (
	"errors"
	"time"

	rc "github.com/dgraph-io/ristretto"

	"github.com/unqo/freshcache/local"
)

type Cache struct {
	c   *rc.Cache
	ttl time.Duration
}

var _ local.Local = (*Cache)(nil)

type Config struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	// TTL bounds staleness of near-cache entries between change events;
	// 0 means entries live until evicted or invalidated.
	TTL time.Duration
}

func New(cfg Config) (*Cache, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{c: c, ttl: cfg.TTL}, nil
}

func (l *Cache) Get(key string) ([]byte, bool) {
	v, ok := l.c.Get(key)
	if !ok {
		return nil, false
	}
	b, _ := v.([]byte)
	if b == nil {
		l.c.Del(key) // drop unexpected entry shape
		return nil, false
	}
	return b, true
}

func (l *Cache) Set(key string, value []byte) {
	l.c.SetWithTTL(key, value, int64(len(value)), l.ttl)
}

func (l *Cache) Del(key string) { l.c.Del(key) }

func (l *Cache) Clear() { l.c.Clear() }

func (l *Cache) Close() {
	l.c.Wait()
	l.c.Close()
}

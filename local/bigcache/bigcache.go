// Package bigcache adapts allegro/bigcache as a freshcache near-cache.
// Entry lifetime is the global LifeWindow; bigcache has no per-entry TTL.
package bigcache

import (
	"errors"
	"time"

	bc "github.com/allegro/bigcache/v3"

	"github.com/unqo/freshcache/local"
)

type Cache struct {
	c *bc.BigCache
}

var _ local.Local = (*Cache)(nil)

type Config struct {
	LifeWindow         time.Duration
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
}

func New(cfg Config) (*Cache, error) {
	conf := bc.DefaultConfig(cfg.LifeWindow)
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.NewBigCache(conf)
	if err != nil {
		return nil, err
	}
	return &Cache{c: c}, nil
}

func (l *Cache) Get(key string) ([]byte, bool) {
	b, err := l.c.Get(key)
	if err != nil {
		if !errors.Is(err, bc.ErrEntryNotFound) {
			// treat unreadable entries as gone
			_ = l.c.Delete(key)
		}
		return nil, false
	}
	return b, true
}

func (l *Cache) Set(key string, value []byte) {
	_ = l.c.Set(key, value)
}

func (l *Cache) Del(key string) {
	_ = l.c.Delete(key)
}

func (l *Cache) Clear() {
	_ = l.c.Reset()
}

func (l *Cache) Close() {
	_ = l.c.Close()
}

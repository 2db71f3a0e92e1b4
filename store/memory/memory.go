// Package memory is an in-process Store and PubSub. It exists for tests and
// single-process deployments; pub/sub delivery stays within the process.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/unqo/freshcache/store"
)

type entry struct {
	v   []byte
	exp time.Time // zero => no TTL
}

type subscriber struct {
	id      int
	pattern string // literal prefix followed by '*'
	handler func(channel string, payload []byte)
}

type Memory struct {
	mu   sync.RWMutex
	m    map[string]entry
	subs []subscriber
	next int
}

var (
	_ store.Store  = (*Memory)(nil)
	_ store.PubSub = (*Memory)(nil)
)

func New() *Memory {
	return &Memory{m: make(map[string]entry)}
}

func (s *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	e, ok := s.m[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		s.mu.Lock()
		delete(s.m, key)
		s.mu.Unlock()
		return nil, false, nil
	}
	return e.v, true, nil
}

func (s *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	// copy so later caller mutations cannot corrupt the stored entry
	v := make([]byte, len(value))
	copy(v, value)
	s.mu.Lock()
	s.m[key] = entry{v: v, exp: exp}
	s.mu.Unlock()
	return nil
}

func (s *Memory) Del(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
	return nil
}

func (s *Memory) Clear(_ context.Context, prefix string) error {
	s.mu.Lock()
	for k := range s.m {
		if strings.HasPrefix(k, prefix) {
			delete(s.m, k)
		}
	}
	s.mu.Unlock()
	return nil
}

func (s *Memory) Close(context.Context) error { return nil }

// Len reports the number of live entries. Test helper.
func (s *Memory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

func (s *Memory) Publish(_ context.Context, channel string, payload []byte) error {
	s.mu.RLock()
	targets := make([]subscriber, 0, len(s.subs))
	for _, sub := range s.subs {
		if matches(sub.pattern, channel) {
			targets = append(targets, sub)
		}
	}
	s.mu.RUnlock()
	for _, sub := range targets {
		sub.handler(channel, payload)
	}
	return nil
}

func (s *Memory) Subscribe(_ context.Context, pattern string, handler func(channel string, payload []byte)) (func() error, error) {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs = append(s.subs, subscriber{id: id, pattern: pattern, handler: handler})
	s.mu.Unlock()
	stop := func() error {
		s.mu.Lock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
		return nil
	}
	return stop, nil
}

func matches(pattern, channel string) bool {
	if p, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(channel, p)
	}
	return pattern == channel
}

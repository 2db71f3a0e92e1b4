// Package redis backs freshcache with a Redis server (or cluster) via
// go-redis. It also exposes Redis pub/sub as the cross-process change
// notification channel.
package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unqo/freshcache/store"
)

var ErrNilClient = errors.New("redis store: nil client")

// scanBatch is the COUNT hint and DEL batch size used by Clear.
const scanBatch = 512

type Redis struct {
	rdb         goredis.UniversalClient
	closeClient bool
}

var (
	_ store.Store  = (*Redis)(nil)
	_ store.PubSub = (*Redis)(nil)
)

type Config struct {
	Client      goredis.UniversalClient
	CloseClient bool // set true only if this store exclusively owns the client
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Redis{rdb: cfg.Client, closeClient: cfg.CloseClient}, nil
}

func (s *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	return b, true, nil
}

func (s *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 0 // no expiry
	}
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

func (s *Redis) Del(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

// Clear walks the prefix with SCAN and deletes in batches, so a large
// namespace never blocks the server the way KEYS would.
func (s *Redis) Clear(ctx context.Context, prefix string) error {
	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, prefix+"*", scanBatch).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (s *Redis) Publish(ctx context.Context, channel string, payload []byte) error {
	return s.rdb.Publish(ctx, channel, payload).Err()
}

// Subscribe uses PSUBSCRIBE so one subscription covers every cache under
// the manager's channel prefix. Messages are delivered on a dedicated
// goroutine until stop is called.
func (s *Redis) Subscribe(ctx context.Context, pattern string, handler func(channel string, payload []byte)) (func() error, error) {
	ps := s.rdb.PSubscribe(ctx, pattern)
	// force the subscription to be established before returning
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}
	go func() {
		for msg := range ps.Channel() {
			handler(msg.Channel, []byte(msg.Payload))
		}
	}()
	return ps.Close, nil
}

// Close releases the underlying redis client only when this store owns it.
// Safe to call multiple times.
func (s *Redis) Close(context.Context) error {
	if s.closeClient {
		if err := s.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}

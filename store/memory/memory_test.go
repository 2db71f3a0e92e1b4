package memory

import (
	"context"
	"testing"
	"time"
)

func TestSetGetDel(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, ok, err := s.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	b, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || string(b) != "v" {
		t.Fatalf("Get: %q ok=%v err=%v", b, ok, err)
	}
	if err := s.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatal("entry survived Del")
	}
}

func TestTTLExpiry(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.Set(ctx, "k", []byte("v"), 10*time.Millisecond)

	if _, ok, _ := s.Get(ctx, "k"); !ok {
		t.Fatal("entry expired too early")
	}
	time.Sleep(20 * time.Millisecond)
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatal("entry survived its TTL")
	}
}

func TestStoredBytesAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := New()
	v := []byte("abc")
	_ = s.Set(ctx, "k", v, 0)
	v[0] = 'x'

	b, _, _ := s.Get(ctx, "k")
	if string(b) != "abc" {
		t.Fatalf("stored bytes mutated: %q", b)
	}
}

func TestClearPrefix(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.Set(ctx, "user:1", []byte("a"), 0)
	_ = s.Set(ctx, "user:2", []byte("b"), 0)
	_ = s.Set(ctx, "order:1", []byte("c"), 0)

	if err := s.Clear(ctx, "user:"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("entries after clear = %d, want 1", s.Len())
	}
	if _, ok, _ := s.Get(ctx, "order:1"); !ok {
		t.Fatal("clear crossed namespace boundary")
	}
}

func TestPubSubPatternAndUnsubscribe(t *testing.T) {
	ctx := context.Background()
	s := New()

	var got []string
	stop, err := s.Subscribe(ctx, "fc:*", func(channel string, payload []byte) {
		got = append(got, channel+"="+string(payload))
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	_ = s.Publish(ctx, "fc:user", []byte("a"))
	_ = s.Publish(ctx, "other:user", []byte("b")) // no match
	if len(got) != 1 || got[0] != "fc:user=a" {
		t.Fatalf("delivered = %v", got)
	}

	if err := stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	_ = s.Publish(ctx, "fc:user", []byte("c"))
	if len(got) != 1 {
		t.Fatalf("message delivered after unsubscribe: %v", got)
	}
}

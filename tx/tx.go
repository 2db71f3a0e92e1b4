// Package tx provides the ambient transaction scope the cache engine uses
// to defer mutations. A scope travels in a context.Context; Put and Evict
// issued while a scope is active register post-commit actions instead of
// (or, for Evict, in addition to) executing immediately.
//
// The package does not manage database transactions itself. The surrounding
// system opens its transaction, calls Begin, and invokes Commit or Rollback
// on the scope when the real transaction finishes.
package tx

import (
	"context"
	"sync"
)

type ctxKey struct{}

// Scope collects post-commit actions for one transaction.
type Scope struct {
	mu    sync.Mutex
	done  bool
	after []func()
}

// Begin attaches a new scope to ctx and returns both.
func Begin(ctx context.Context) (context.Context, *Scope) {
	s := &Scope{}
	return context.WithValue(ctx, ctxKey{}, s), s
}

// FromContext returns the active scope, or nil when no transaction is
// active.
func FromContext(ctx context.Context) *Scope {
	s, _ := ctx.Value(ctxKey{}).(*Scope)
	return s
}

// AfterCommit registers fn to run when the scope commits. If the scope has
// already finished, fn runs immediately: late registrants must not be
// silently lost.
func (s *Scope) AfterCommit(fn func()) {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		fn()
		return
	}
	s.after = append(s.after, fn)
	s.mu.Unlock()
}

// Commit runs the registered actions in registration order. Subsequent
// calls are no-ops.
func (s *Scope) Commit() {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.done = true
	actions := s.after
	s.after = nil
	s.mu.Unlock()

	for _, fn := range actions {
		fn()
	}
}

// Rollback discards the registered actions. Subsequent calls are no-ops.
func (s *Scope) Rollback() {
	s.mu.Lock()
	s.done = true
	s.after = nil
	s.mu.Unlock()
}

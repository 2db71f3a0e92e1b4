package refresh

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutorRunsTasks(t *testing.T) {
	e := NewExecutor(2, 16)
	defer e.Close(context.Background())

	var ran atomic.Int64
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		require.True(t, e.Submit(func() {
			if ran.Add(1) == 8 {
				close(done)
			}
		}))
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("only %d/8 tasks ran", ran.Load())
	}
}

func TestExecutorDropsWhenFull(t *testing.T) {
	e := NewExecutor(1, 1)
	defer e.Close(context.Background())

	block := make(chan struct{})
	started := make(chan struct{})
	require.True(t, e.Submit(func() { close(started); <-block }))
	<-started // worker busy

	require.True(t, e.Submit(func() {})) // fills the queue
	assert.False(t, e.Submit(func() {}), "queue full must drop, not block")
	close(block)
}

func TestExecutorCloseWaitsBounded(t *testing.T) {
	e := NewExecutor(1, 4)

	block := make(chan struct{})
	started := make(chan struct{})
	require.True(t, e.Submit(func() { close(started); <-block }))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, e.Close(ctx), context.DeadlineExceeded, "stuck task must not block shutdown")

	close(block)
	assert.False(t, e.Submit(func() {}), "closed executor rejects tasks")
	assert.NoError(t, e.Close(context.Background()))
}

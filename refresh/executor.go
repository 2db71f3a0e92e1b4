package refresh

import (
	"context"
	"sync"
)

// Executor is the bounded worker pool that runs background refreshes. One
// executor is shared by every cache of a manager, capping the total
// background load of the process.
//
// Submit never blocks: when the queue is full the task is dropped, and the
// next eligible read schedules the next attempt. Tasks are not cancellable
// once submitted and may run out of submission order.
type Executor struct {
	mu     sync.RWMutex
	q      chan func()
	closed bool
	wg     sync.WaitGroup
}

func NewExecutor(workers, queue int) *Executor {
	if workers <= 0 {
		workers = 4
	}
	if queue <= 0 {
		queue = 256
	}
	e := &Executor{q: make(chan func(), queue)}
	e.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer e.wg.Done()
			for task := range e.q {
				task()
			}
		}()
	}
	return e
}

// Submit enqueues task. Returns false when the queue is full or the
// executor is closed.
func (e *Executor) Submit(task func()) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return false
	}
	select {
	case e.q <- task:
		return true
	default:
		return false
	}
}

// Close stops accepting tasks and waits for in-flight ones, bounded by
// ctx. Remaining tasks are abandoned when ctx expires.
func (e *Executor) Close(ctx context.Context) error {
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		close(e.q)
	}
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

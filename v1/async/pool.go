package async

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// defaultWorkers bounds concurrent engine calls when the caller does not
// configure a limit.
const defaultWorkers = 8

// Pool bounds the number of concurrently executing facade calls. Every
// submitted call takes one slot for its full duration, so a saturated
// pool queues new calls rather than growing without bound.
type Pool struct {
	sem *semaphore.Weighted
}

// NewPool creates a pool with the given concurrency limit; zero or
// negative means the default of 8.
func NewPool(limit int) *Pool {
	if limit <= 0 {
		limit = defaultWorkers
	}
	return &Pool{sem: semaphore.NewWeighted(int64(limit))}
}

// Future is the pending result of a submitted call.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Wait blocks until the call finishes or ctx is cancelled. Cancellation
// abandons the wait only: the call itself keeps running to completion,
// and a later Wait can still collect its result.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Submit schedules fn on the pool and returns its future. The context
// governs slot acquisition and waiting; once the call starts it is
// shielded from caller cancellation.
func Submit[T any](ctx context.Context, p *Pool, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		if err := p.sem.Acquire(ctx, 1); err != nil {
			f.err = err
			return
		}
		defer p.sem.Release(1)
		f.value, f.err = fn(context.WithoutCancel(ctx))
	}()
	return f
}

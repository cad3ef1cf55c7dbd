package async

import (
	"context"
	"sync"
	"time"
)

// Future represents the result of an asynchronous computation.
type Future[U any] struct {
	result U
	err    error
	done   chan struct{}
}

// Await waits for the asynchronous function to complete and returns its result and error.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout waits for completion at most timeout and returns ErrTimeout otherwise.
// The computation keeps running after a timeout.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.result, f.err
	case <-timer.C:
		var zero U
		return zero, ErrTimeout
	}
}

// IsComplete checks if the asynchronous function is complete without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Async executes fn in its own goroutine and returns a Future for its result.
// A context that is already canceled completes the Future with ctx.Err() without calling fn.
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}

		f.result, f.err = fn(ctx, param)
	}()

	return f
}

// WaitAll waits for every future and returns their results in order. The error
// is the first non-nil error in slice order; results of failed futures are zero.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))

	var firstErr error
	for i, future := range futures {
		result, err := future.Await()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		results[i] = result
	}

	return results, firstErr
}

// Map applies fn to every item with at most limit calls in flight and returns the
// results in input order. The first failure cancels the context passed to the
// remaining calls, and Map returns that failure rather than the cancellations it caused.
func Map[T any, U any](ctx context.Context, items []T, limit int, fn func(context.Context, T) (U, error)) ([]U, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	sem := make(chan struct{}, limit)
	futures := make([]*Future[U], len(items))
	for i, item := range items {
		futures[i] = Async(ctx, item, func(ctx context.Context, item T) (U, error) {
			var zero U
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return zero, ctx.Err()
			}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				return zero, err
			}

			res, err := fn(ctx, item)
			if err != nil {
				fail(err)
				return zero, err
			}
			return res, nil
		})
	}

	results, err := WaitAll(futures...)
	if firstErr != nil {
		return nil, firstErr
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

package server

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Dispatcher runs blocking work on its own goroutines, bounded by a fixed
// number of slots.
type Dispatcher struct {
	sem *semaphore.Weighted
}

func NewDispatcher(slots int64) *Dispatcher {
	if slots < 1 {
		slots = 1
	}
	return &Dispatcher{sem: semaphore.NewWeighted(slots)}
}

// IO is the dispatcher used for network calls.
var IO = NewDispatcher(64)

type result[T any] struct {
	value T
	err   error
}

// Run executes fn on a d-owned goroutine and hands the result back to the
// caller. If ctx ends first Run returns ctx.Err() without waiting; fn sees the
// same ctx and is expected to abort.
func Run[T any](ctx context.Context, d *Dispatcher, fn func(ctx context.Context) (T, error)) (T, error) {
	done := make(chan result[T], 1)

	go func() {
		if err := d.sem.Acquire(ctx, 1); err != nil {
			done <- result[T]{err: err}
			return
		}
		defer d.sem.Release(1)

		v, err := fn(ctx)
		done <- result[T]{value: v, err: err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// WithIO runs fn on the IO dispatcher.
func WithIO[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	return Run(ctx, IO, fn)
}

// DoIO is WithIO for calls without a result.
func DoIO(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := Run(ctx, IO, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Package viewmodel holds per-screen state that bridges server calls to the UI.
package viewmodel

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// IsCancellation reports whether err means the work was abandoned rather than
// failed. Cancellation is never treated as an application error.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled)
}

// Scope ties background tasks to a view model's lifetime.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	group  errgroup.Group
	logger zerolog.Logger
}

func NewScope(parent context.Context, logger zerolog.Logger) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel, logger: logger}
}

func (s *Scope) Context() context.Context {
	return s.ctx
}

// Launch runs fn in the background with the scope's context. A cancellation
// returned by fn is dropped; any other error is logged and reported by Close.
func (s *Scope) Launch(name string, fn func(ctx context.Context) error) {
	s.group.Go(func() error {
		err := fn(s.ctx)
		switch {
		case err == nil, IsCancellation(err):
			return nil
		default:
			s.logger.Error().Err(err).Str("task", name).Msg("task failed")
			return err
		}
	})
}

// Close cancels every outstanding task, waits for them, and returns the first
// task failure.
func (s *Scope) Close() error {
	s.cancel()
	return s.group.Wait()
}

package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestIsCancellation(t *testing.T) {
	assert.True(t, IsCancellation(context.Canceled))
	assert.True(t, IsCancellation(fmt.Errorf("get: %w", context.Canceled)))
	assert.False(t, IsCancellation(context.DeadlineExceeded))
	assert.False(t, IsCancellation(errors.New("boom")))
	assert.False(t, IsCancellation(nil))
}

func TestScopeCloseCancelsTasks(t *testing.T) {
	s := NewScope(context.Background(), zerolog.Nop())
	started := make(chan struct{})

	s.Launch("wait", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})

	<-started
	assert.NoError(t, s.Close())
}

func TestScopeReportsFailure(t *testing.T) {
	s := NewScope(context.Background(), zerolog.Nop())
	boom := errors.New("boom")

	s.Launch("fail", func(ctx context.Context) error { return boom })

	assert.ErrorIs(t, s.Close(), boom)
}

func TestScopeFailureDoesNotCancelSiblings(t *testing.T) {
	s := NewScope(context.Background(), zerolog.Nop())
	failed := make(chan struct{})
	sibling := make(chan error, 1)

	s.Launch("fail", func(ctx context.Context) error {
		defer close(failed)
		return errors.New("boom")
	})
	s.Launch("sibling", func(ctx context.Context) error {
		<-failed
		sibling <- ctx.Err()
		return nil
	})

	assert.NoError(t, <-sibling)
	s.Close()
}

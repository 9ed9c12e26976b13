package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetry(t *testing.T) {
	opts := RetryOptions{
		MaxAttempts:  5,
		InitialDelay: time.Microsecond,
		MaxDelay:     16 * time.Microsecond,
		Multiplier:   2.0,
	}

	t.Run("succeeds first try", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return nil
		}, opts)
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("succeeds on fifth attempt after four failures", func(t *testing.T) {
		calls := 0
		attemptErrors := 0
		o := opts
		o.OnAttemptError = func(_ int, _ error) { attemptErrors++ }

		err := WithRetry(context.Background(), func() error {
			calls++
			if calls < 5 {
				return errors.New("transient")
			}
			return nil
		}, o)
		require.NoError(t, err)
		assert.Equal(t, 5, calls)
		assert.Equal(t, 4, attemptErrors, "every failed attempt must be reported")
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		calls := 0
		attemptErrors := 0
		o := opts
		o.OnAttemptError = func(_ int, _ error) { attemptErrors++ }

		err := WithRetry(context.Background(), func() error {
			calls++
			return errors.New("still broken")
		}, o)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMaxRetries)
		assert.Equal(t, 5, calls)
		assert.Equal(t, 5, attemptErrors)
	})

	t.Run("non-retryable error stops immediately", func(t *testing.T) {
		calls := 0
		term := NonRetryable(errors.New("permissions"))
		err := WithRetry(context.Background(), func() error {
			calls++
			return term
		}, opts)
		require.Error(t, err)
		assert.Equal(t, 1, calls)
		assert.NotErrorIs(t, err, ErrMaxRetries)
	})

	t.Run("canceled context aborts backoff sleep", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		o := opts
		o.InitialDelay = time.Hour

		calls := 0
		done := make(chan error, 1)
		go func() {
			done <- WithRetry(ctx, func() error {
				calls++
				return errors.New("transient")
			}, o)
		}()

		cancel()
		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(5 * time.Second):
			t.Fatal("WithRetry did not honor context cancellation")
		}
	})
}

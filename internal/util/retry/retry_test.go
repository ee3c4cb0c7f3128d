package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithExponentialBackoff_Success(t *testing.T) {
	t.Parallel()
	attempts := 0

	err := WithExponentialBackoff(context.Background(), func() error {
		attempts++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestWithExponentialBackoff_SuccessAfterRetries(t *testing.T) {
	t.Parallel()
	attempts := 0

	err := WithExponentialBackoff(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("repository not found")
		}
		return nil
	}, WithInitialDelay(time.Millisecond))

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithExponentialBackoff_MaxRetries(t *testing.T) {
	t.Parallel()
	attempts := 0
	persistent := errors.New("persistent error")

	err := WithExponentialBackoff(context.Background(), func() error {
		attempts++
		return persistent
	}, WithMaxRetries(3), WithInitialDelay(time.Millisecond))

	require.Error(t, err)
	assert.ErrorIs(t, err, persistent)
	// MaxRetries counts retries after the first attempt.
	assert.Equal(t, 4, attempts)
	assert.Contains(t, err.Error(), "after 4 attempts")
}

func TestWithExponentialBackoff_CancelledBeforeFirstAttempt(t *testing.T) {
	t.Parallel()
	attempts := 0

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithExponentialBackoff(ctx, func() error {
		attempts++
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, attempts)
}

func TestWithExponentialBackoff_ContextTimeoutKeepsLastError(t *testing.T) {
	t.Parallel()
	attempts := 0
	opErr := errors.New("push rejected")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := WithExponentialBackoff(ctx, func() error {
		attempts++
		return opErr
	}, WithInitialDelay(time.Second), WithMaxRetries(10))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, opErr)
	assert.Equal(t, 1, attempts)
}

func TestWithExponentialBackoff_FatalError(t *testing.T) {
	t.Parallel()
	attempts := 0

	err := WithExponentialBackoff(context.Background(), func() error {
		attempts++
		return Fatal(errors.New("bad credentials"))
	}, WithInitialDelay(time.Millisecond))

	require.Error(t, err)
	assert.True(t, IsFatal(err))
	assert.Equal(t, 1, attempts)
}

func TestWithExponentialBackoff_RetryIf(t *testing.T) {
	t.Parallel()

	transient := errors.New("502 bad gateway")
	permanent := errors.New("422 validation failed")
	isTransient := func(err error) bool { return errors.Is(err, transient) }

	t.Run("retries matching errors", func(t *testing.T) {
		t.Parallel()
		attempts := 0
		err := WithExponentialBackoff(context.Background(), func() error {
			attempts++
			if attempts == 1 {
				return transient
			}
			return nil
		}, WithRetryIf(isTransient), WithInitialDelay(time.Millisecond))

		require.NoError(t, err)
		assert.Equal(t, 2, attempts)
	})

	t.Run("stops on other errors", func(t *testing.T) {
		t.Parallel()
		attempts := 0
		err := WithExponentialBackoff(context.Background(), func() error {
			attempts++
			return permanent
		}, WithRetryIf(isTransient), WithInitialDelay(time.Millisecond))

		assert.Same(t, permanent, err)
		assert.Equal(t, 1, attempts)
	})
}

func TestWithMaxDelay_CapsBackoff(t *testing.T) {
	t.Parallel()
	attempts := 0
	var delays []time.Duration
	last := time.Now()

	_ = WithExponentialBackoff(context.Background(), func() error {
		attempts++
		now := time.Now()
		if attempts > 1 {
			delays = append(delays, now.Sub(last))
		}
		last = now
		if attempts < 5 {
			return errors.New("error")
		}
		return nil
	}, WithInitialDelay(5*time.Millisecond), WithMaxDelay(10*time.Millisecond), WithMultiplier(4))

	for i, d := range delays {
		assert.LessOrEqual(t, d, 60*time.Millisecond, "delay %d exceeded cap", i+1)
	}
}

func TestFatal(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Fatal(nil))

	original := errors.New("test error")
	err := Fatal(original)
	assert.True(t, IsFatal(err))
	assert.Equal(t, original.Error(), err.Error())
	assert.Same(t, original, errors.Unwrap(err))
}

func TestIsFatal(t *testing.T) {
	t.Parallel()

	assert.False(t, IsFatal(errors.New("regular error")))
	assert.True(t, IsFatal(Fatal(errors.New("fatal error"))))
	assert.True(t, IsFatal(errors.Join(Fatal(errors.New("base")), errors.New("more"))))
	assert.True(t, IsFatal(fmt.Errorf("context: %w", Fatal(errors.New("base")))))
}

package helper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitHostPort(t *testing.T) {
	host, port, err := SplitHostPort("localhost:8081")
	require.NoError(t, err)
	assert.Equal(t, "localhost", host)
	assert.Equal(t, 8081, port)

	_, _, err = SplitHostPort("localhost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid address format")

	_, _, err = SplitHostPort("localhost:abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
}

func TestIsDurationSet(t *testing.T) {
	assert.False(t, IsDurationSet(0))
	assert.True(t, IsDurationSet(time.Second))
}

func TestWithRetry(t *testing.T) {
	t.Run("RetriesUntilSuccess", func(t *testing.T) {
		attempts := 0
		err := WithRetryWithBc(context.Background(), func() error {
			attempts++
			if attempts < 3 {
				return errors.New("temporary")
			}
			return nil
		}, &backoff.ExponentialBackOff{
			InitialInterval: time.Millisecond,
			MaxElapsedTime:  5 * time.Second,
		})
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("StopsOnCanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		attempts := 0
		err := WithRetry(ctx, func() error {
			attempts++
			return errors.New("temporary")
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, attempts)
	})
}

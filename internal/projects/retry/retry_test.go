package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windscape-energy/windscape-backend/internal/projects/domain"
	"github.com/windscape-energy/windscape-backend/internal/projects/retry"
)

func fastPolicy() retry.Policy {
	return retry.Policy{
		MaxRetries:   2,
		InitialDelay: time.Millisecond,
		MaxDelay:     4 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDo_Success(t *testing.T) {
	t.Run("first attempt succeeds without delay", func(t *testing.T) {
		calls := 0
		err := retry.Do(context.Background(), "op", fastPolicy(), func(context.Context) error {
			calls++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("transient failure then success makes exactly two attempts", func(t *testing.T) {
		calls := 0
		err := retry.Do(context.Background(), "op", fastPolicy(), func(context.Context) error {
			calls++
			if calls == 1 {
				return domain.Transient(errors.New("service unavailable"))
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})
}

func TestDo_TerminalError(t *testing.T) {
	t.Run("does not retry unclassified errors", func(t *testing.T) {
		terminal := errors.New("access denied")
		calls := 0
		err := retry.Do(context.Background(), "save demo", fastPolicy(), func(context.Context) error {
			calls++
			return terminal
		})

		require.Error(t, err)
		assert.Equal(t, 1, calls)

		var opErr *domain.StoreOperationError
		require.ErrorAs(t, err, &opErr)
		assert.Equal(t, "save demo", opErr.Op)
		assert.Equal(t, 1, opErr.Attempts)
		assert.ErrorIs(t, err, terminal)
	})

	t.Run("not-found propagates through the wrapper", func(t *testing.T) {
		err := retry.Do(context.Background(), "load demo", fastPolicy(), func(context.Context) error {
			return domain.ErrNotFound
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestDo_Exhaustion(t *testing.T) {
	t.Run("gives up after max retries and reports attempt count", func(t *testing.T) {
		calls := 0
		err := retry.Do(context.Background(), "put key", fastPolicy(), func(context.Context) error {
			calls++
			return domain.Transient(errors.New("throttled"))
		})

		require.Error(t, err)
		assert.Equal(t, 3, calls) // initial attempt + 2 retries

		var opErr *domain.StoreOperationError
		require.ErrorAs(t, err, &opErr)
		assert.Equal(t, 3, opErr.Attempts)
	})
}

func TestDo_ContextCancelled(t *testing.T) {
	t.Run("stops retrying when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		calls := 0
		err := retry.Do(ctx, "op", retry.Policy{
			MaxRetries:   5,
			InitialDelay: 50 * time.Millisecond,
			MaxDelay:     time.Second,
			Multiplier:   2.0,
		}, func(context.Context) error {
			calls++
			cancel()
			return domain.Transient(errors.New("flaky"))
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

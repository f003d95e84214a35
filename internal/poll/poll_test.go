package poll_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/fivetwenty-io/cml-mcp/internal/poll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransport = errors.New("connection refused")

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestUntil(t *testing.T) {
	t.Parallel()

	t.Run("ready on first check", func(t *testing.T) {
		t.Parallel()

		result, err := poll.Until(context.Background(), poll.Fixed(time.Hour, time.Minute),
			func(context.Context, int) (bool, error) { return true, nil })
		require.NoError(t, err)
		assert.Equal(t, poll.OutcomeReady, result.Outcome)
		assert.Equal(t, 1, result.Attempts)
	})

	t.Run("ready after several checks", func(t *testing.T) {
		t.Parallel()

		result, err := poll.Until(context.Background(), poll.Fixed(constants.QuickPollInterval, time.Minute),
			func(_ context.Context, attempt int) (bool, error) { return attempt == 3, nil })
		require.NoError(t, err)
		assert.Equal(t, poll.OutcomeReady, result.Outcome)
		assert.Equal(t, 3, result.Attempts)
	})

	t.Run("times out", func(t *testing.T) {
		t.Parallel()

		result, err := poll.Until(context.Background(), poll.Fixed(constants.QuickPollInterval, 50*time.Millisecond),
			func(context.Context, int) (bool, error) { return false, nil })
		require.NoError(t, err)
		assert.Equal(t, poll.OutcomeTimedOut, result.Outcome)
		assert.GreaterOrEqual(t, result.Attempts, 1)
	})

	t.Run("attempt budget", func(t *testing.T) {
		t.Parallel()

		policy := poll.Policy{Interval: constants.QuickPollInterval, MaxAttempts: 4}

		result, err := poll.Until(context.Background(), policy,
			func(context.Context, int) (bool, error) { return false, nil })
		require.NoError(t, err)
		assert.Equal(t, poll.OutcomeTimedOut, result.Outcome)
		assert.Equal(t, 4, result.Attempts)
	})

	t.Run("exponential policy", func(t *testing.T) {
		t.Parallel()

		policy := poll.Policy{
			Interval:    time.Millisecond,
			Multiplier:  2,
			MaxInterval: 5 * time.Millisecond,
			MaxAttempts: 5,
		}

		result, err := poll.Until(context.Background(), policy,
			func(_ context.Context, attempt int) (bool, error) { return attempt == 5, nil })
		require.NoError(t, err)
		assert.Equal(t, poll.OutcomeReady, result.Outcome)
		assert.Equal(t, 5, result.Attempts)
	})

	t.Run("check error propagates", func(t *testing.T) {
		t.Parallel()

		result, err := poll.Until(context.Background(), poll.Fixed(constants.QuickPollInterval, time.Minute),
			func(_ context.Context, attempt int) (bool, error) {
				if attempt == 2 {
					return false, errTransport
				}

				return false, nil
			})
		require.ErrorIs(t, err, errTransport)
		assert.Equal(t, 2, result.Attempts)
	})

	t.Run("deadline during check is a timeout", func(t *testing.T) {
		t.Parallel()

		result, err := poll.Until(context.Background(), poll.Fixed(constants.QuickPollInterval, 20*time.Millisecond),
			func(ctx context.Context, _ int) (bool, error) {
				<-ctx.Done()

				return false, ctx.Err()
			})
		require.NoError(t, err)
		assert.Equal(t, poll.OutcomeTimedOut, result.Outcome)
	})

	t.Run("caller cancellation is an error", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := poll.Until(ctx, poll.Fixed(constants.QuickPollInterval, time.Minute),
			func(context.Context, int) (bool, error) { return false, nil })
		require.ErrorIs(t, err, context.Canceled)
	})
}

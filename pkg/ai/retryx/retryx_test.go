package retryx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transientErr struct{ msg string }

func (e transientErr) Error() string   { return e.msg }
func (e transientErr) Transient() bool { return true }

func noSleep(delays *[]time.Duration) Option {
	return WithSleeper(func(ctx context.Context, d time.Duration) {
		*delays = append(*delays, d)
	})
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	var delays []time.Duration
	calls := 0

	result, err := Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "ok", nil
	}, noSleep(&delays))

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, calls)
	assert.Empty(t, delays)
}

func TestDoRetriesTransientWithExponentialBackoff(t *testing.T) {
	var delays []time.Duration
	calls := 0

	result, err := Do(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, transientErr{"upstream 503"}
		}
		return 42, nil
	}, noSleep(&delays))

	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 3, calls)
	// 1s * 2^0, 1s * 2^1, no jitter
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, delays)
}

func TestDoExhaustsBudgetAndReturnsLastError(t *testing.T) {
	var delays []time.Duration
	calls := 0
	lastErr := transientErr{"still down"}

	_, err := Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "", lastErr
	}, noSleep(&delays))

	require.Error(t, err)
	assert.Equal(t, lastErr, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, delays, 2)
}

func TestDoDoesNotRetryTerminalErrors(t *testing.T) {
	var delays []time.Duration
	calls := 0
	terminal := errors.New("bad request")

	_, err := Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "", terminal
	}, noSleep(&delays))

	require.Error(t, err)
	assert.Equal(t, terminal, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, delays)
}

func TestDoHonorsMaxAttemptsOption(t *testing.T) {
	var delays []time.Duration
	calls := 0

	_, err := Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "", transientErr{"flaky"}
	}, WithMaxAttempts(5), WithInitialDelay(10*time.Millisecond), noSleep(&delays))

	require.Error(t, err)
	assert.Equal(t, 5, calls)
	assert.Equal(t, []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		40 * time.Millisecond,
		80 * time.Millisecond,
	}, delays)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(transientErr{"503"}))
	assert.False(t, IsTransient(errors.New("plain")))
	assert.False(t, IsTransient(nil))
}

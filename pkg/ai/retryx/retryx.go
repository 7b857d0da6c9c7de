package retryx

import (
	"context"
	"time"

	"github.com/Abraxas-365/confidant/pkg/logx"
	"github.com/openai/openai-go/v3"
)

// Options controls the retry policy for a single call
type Options struct {
	MaxAttempts  int
	InitialDelay time.Duration

	// sleep is swappable so tests can observe delays without waiting
	sleep func(ctx context.Context, d time.Duration)
}

// Option is a function type to modify Options
type Option func(*Options)

// WithMaxAttempts sets the attempt budget (including the first call)
func WithMaxAttempts(n int) Option {
	return func(o *Options) {
		o.MaxAttempts = n
	}
}

// WithInitialDelay sets the delay before the first retry
func WithInitialDelay(d time.Duration) Option {
	return func(o *Options) {
		o.InitialDelay = d
	}
}

// WithSleeper overrides how backoff waits are performed
func WithSleeper(sleep func(ctx context.Context, d time.Duration)) Option {
	return func(o *Options) {
		o.sleep = sleep
	}
}

// DefaultOptions returns the default retry policy
func DefaultOptions() *Options {
	return &Options{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		sleep: func(ctx context.Context, d time.Duration) {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-ctx.Done():
			case <-timer.C:
			}
		},
	}
}

// TransientError marks an error as a retryable upstream failure
type TransientError interface {
	Transient() bool
}

// IsTransient reports whether err is a retryable upstream failure.
// Server-side (5xx) errors from the OpenAI API are transient; everything
// else is terminal unless it opts in via TransientError.
func IsTransient(err error) bool {
	if apiErr, ok := err.(*openai.Error); ok {
		return apiErr.StatusCode >= 500
	}
	if te, ok := err.(TransientError); ok {
		return te.Transient()
	}
	return false
}

// Do runs op, retrying transient failures with pure exponential backoff
// (initialDelay * 2^attempt, no jitter). Terminal failures and exhausted
// budgets re-raise the last error unchanged. The backoff wait blocks only
// the calling goroutine; there is no per-retry cancellation beyond the
// caller's ctx deadline.
func Do[T any](ctx context.Context, op func(ctx context.Context) (T, error), opts ...Option) (T, error) {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	var zero T
	var lastErr error
	for attempt := 0; attempt < options.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsTransient(err) || attempt == options.MaxAttempts-1 {
			return zero, err
		}

		delay := options.InitialDelay << uint(attempt)
		logx.WithFields(logx.Fields{
			"attempt":      attempt + 1,
			"max_attempts": options.MaxAttempts,
			"delay":        delay.String(),
		}).Warnf("transient upstream error, retrying: %v", err)
		options.sleep(ctx, delay)
	}

	return zero, lastErr
}

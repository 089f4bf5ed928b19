package upstream

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/empproxy/empproxy/internal/metrics"
)

// Default retry parameters.
const (
	DefaultMaxAttempts  = 3
	DefaultInitialDelay = 1 * time.Second
	DefaultMaxDelay     = 5 * time.Second
	DefaultMultiplier   = 2.0
)

// RetryPolicy is bounded exponential backoff applied to rate-limited calls.
// MaxAttempts counts every upstream call, the first one included.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultRetryPolicy returns the stock policy: 3 attempts, 1s doubling up to 5s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  DefaultMaxAttempts,
		InitialDelay: DefaultInitialDelay,
		MaxDelay:     DefaultMaxDelay,
		Multiplier:   DefaultMultiplier,
	}
}

// Attempts returns the effective attempt ceiling (never below 1).
func (p RetryPolicy) Attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// Delay returns the wait before the retry that follows the given 0-indexed attempt:
// min(MaxDelay, InitialDelay * Multiplier^attempt).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if p.InitialDelay <= 0 {
		return 0
	}

	d := float64(p.InitialDelay) * math.Pow(p.Multiplier, float64(attempt))
	if math.IsNaN(d) || math.IsInf(d, 0) || d >= float64(p.MaxDelay) || d >= math.MaxInt64 {
		return p.MaxDelay
	}
	if d < 0 {
		return 0
	}
	return time.Duration(d)
}

// ShouldRetry reports whether err after the given 0-indexed attempt earns another try.
func (p RetryPolicy) ShouldRetry(err error, attempt int) bool {
	return errors.Is(err, ErrRateLimited) && attempt+1 < p.Attempts()
}

// IsExhausted returns true if max attempts have been reached.
func (p RetryPolicy) IsExhausted(attemptCount int) bool {
	return attemptCount >= p.Attempts()
}

// retrier runs calls under a RetryPolicy.
type retrier struct {
	policy  RetryPolicy
	logger  *slog.Logger
	metrics metrics.Recorder
}

// withRetry runs fn until it succeeds, fails with a non-retryable error,
// or the policy runs out of attempts. Backoff waits abort when ctx is done.
func withRetry[T any](ctx context.Context, r retrier, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	maxAttempts := r.policy.Attempts()

	for attempt := 0; ; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}

		if !errors.Is(err, ErrRateLimited) {
			return zero, err
		}

		if !r.policy.ShouldRetry(err, attempt) {
			r.metrics.IncRetryExhausted(op)
			r.logger.Error("rate limit retries exhausted",
				"op", op,
				"attempts", attempt+1,
			)
			return zero, &ExhaustedError{Op: op, Attempts: attempt + 1, Last: err}
		}

		delay := r.policy.Delay(attempt)
		r.metrics.IncUpstreamRetry(op)
		r.logger.Warn("rate limited, retrying",
			"op", op,
			"retry", attempt+1,
			"max_attempts", maxAttempts,
			"delay_ms", delay.Milliseconds(),
		)

		if err := sleep(ctx, delay); err != nil {
			return zero, &Error{Op: op, Kind: KindCanceled, Err: err}
		}
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Package resilience provides retry with exponential backoff for upstream calls
package resilience

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Retry configuration constants
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 2 * time.Second
	DefaultMaxDelay    = 30 * time.Second
)

// SleepFunc waits for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// RetryConfig holds retry settings.
type RetryConfig struct {
	// MaxAttempts counts the first call, so 3 means at most two retries.
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	IsRetryable func(error) bool
	Sleep       SleepFunc
	Logger      *zap.Logger
}

// ExhaustedError is returned when every attempt failed with a retryable error
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// DefaultRetryConfig returns the 3 attempt, 2s doubling policy used for speech synthesis.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		MaxDelay:    DefaultMaxDelay,
		IsRetryable: func(error) bool { return true },
		Sleep:       SleepContext,
	}
}

// Retry executes fn with exponential backoff. Non-retryable errors are returned as is;
// running out of attempts returns an *ExhaustedError wrapping the last error.
func Retry(ctx context.Context, cfg RetryConfig, fn func(attempt int) error) error {
	cfg = cfg.withDefaults()
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if lastErr = fn(attempt); lastErr == nil {
			return nil
		}

		if !cfg.IsRetryable(lastErr) {
			return lastErr
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		delay := BackoffDelay(cfg.BaseDelay, cfg.MaxDelay, attempt)
		cfg.Logger.Warn("retrying after error",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", cfg.MaxAttempts),
			zap.Duration("delay", delay),
			zap.Error(lastErr))

		if err := cfg.Sleep(ctx, delay); err != nil {
			return err
		}
	}
	return &ExhaustedError{Attempts: cfg.MaxAttempts, Last: lastErr}
}

// BackoffDelay returns base * 2^(attempt-1), capped at max. No jitter is applied.
func BackoffDelay(base, max time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := base << min(attempt-1, 10)
	if max > 0 && delay > max {
		delay = max
	}
	return delay
}

// SleepContext blocks for d, returning early with ctx.Err() on cancellation
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = DefaultBaseDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = DefaultMaxDelay
	}
	if c.IsRetryable == nil {
		c.IsRetryable = func(error) bool { return true }
	}
	if c.Sleep == nil {
		c.Sleep = SleepContext
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

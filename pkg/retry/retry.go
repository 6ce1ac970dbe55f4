// Package retry runs operations against flaky dependencies with exponential
// backoff and jitter. Only transient failures are retried; validation and
// auth-style errors fail fast.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"syscall"
	"time"
)

const (
	// DefaultMaxRetries is the number of additional attempts after the first
	DefaultMaxRetries = 5
	// DefaultInitialDelay is the delay before the first retry
	DefaultInitialDelay = 1 * time.Second
	// jitterFraction is the maximum fraction of the base delay added as jitter
	jitterFraction = 0.1
)

// Injection points for tests.
var (
	sleep = func(ctx context.Context, d time.Duration) error {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		}
	}
	jitterFloat = rand.Float64
)

// HTTPError carries an HTTP status code from a dependency so the retry policy
// can classify it.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: status=%d body=%s", e.StatusCode, e.Body)
}

// Options configures Do
type Options struct {
	MaxRetries   int
	InitialDelay time.Duration
}

// Option mutates Options
type Option func(*Options)

// WithMaxRetries sets the number of retries after the initial attempt
func WithMaxRetries(n int) Option {
	return func(o *Options) { o.MaxRetries = n }
}

// WithInitialDelay sets the delay before the first retry
func WithInitialDelay(d time.Duration) Option {
	return func(o *Options) { o.InitialDelay = d }
}

// Do invokes op, retrying retryable failures up to MaxRetries additional
// times. The delay before retry n is InitialDelay * 2^n plus up to 10% random
// jitter. Non-retryable errors are returned immediately; exhaustion wraps the
// last error with the attempt count.
func Do(ctx context.Context, op func() error, opts ...Option) error {
	o := &Options{
		MaxRetries:   DefaultMaxRetries,
		InitialDelay: DefaultInitialDelay,
	}
	for _, opt := range opts {
		opt(o)
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) {
			return lastErr
		}
		if attempt >= o.MaxRetries {
			return fmt.Errorf("retries exhausted after %d attempts: %w", attempt+1, lastErr)
		}

		base := o.InitialDelay << uint(attempt)
		delay := base + time.Duration(jitterFraction*jitterFloat()*float64(base))
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
}

// retryableStatuses are the HTTP statuses worth another attempt
var retryableStatuses = map[int]bool{
	408: true,
	429: true,
	500: true,
	502: true,
	503: true,
	504: true,
}

// IsRetryable classifies err. Connection resets, refusals, timeouts and the
// retryable HTTP statuses return true; everything else is permanent.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return retryableStatuses[httpErr.StatusCode]
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	return false
}

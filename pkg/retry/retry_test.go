package retry

import (
	"context"
	"errors"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func stubSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var delays []time.Duration
	origSleep, origJitter := sleep, jitterFloat
	sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	t.Cleanup(func() {
		sleep = origSleep
		jitterFloat = origJitter
	})
	return &delays
}

func TestDo_SucceedsFirstTry(t *testing.T) {
	delays := stubSleep(t)

	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
	require.Empty(t, *delays)
}

func TestDo_RetriesThenSucceeds(t *testing.T) {
	delays := stubSleep(t)
	jitterFloat = func() float64 { return 0 }

	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return &HTTPError{StatusCode: 503}
		}
		return nil
	}, WithInitialDelay(100*time.Millisecond))
	require.NoError(t, err)
	require.Equal(t, 3, calls)
	require.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, *delays)
}

func TestDo_JitterStaysWithinTenPercent(t *testing.T) {
	delays := stubSleep(t)
	jitterFloat = func() float64 { return 1 }

	calls := 0
	_ = Do(context.Background(), func() error {
		calls++
		return &HTTPError{StatusCode: 500}
	}, WithMaxRetries(2), WithInitialDelay(time.Second))

	require.Equal(t, 3, calls)
	require.Equal(t, []time.Duration{
		time.Second + 100*time.Millisecond,
		2*time.Second + 200*time.Millisecond,
	}, *delays)
}

func TestDo_FailsFastOnPermanentError(t *testing.T) {
	delays := stubSleep(t)

	permanent := errors.New("invalid payload")
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		return permanent
	})
	require.ErrorIs(t, err, permanent)
	require.Equal(t, 1, calls)
	require.Empty(t, *delays)
}

func TestDo_ExhaustionWrapsLastError(t *testing.T) {
	stubSleep(t)

	last := &HTTPError{StatusCode: 502}
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		return last
	}, WithMaxRetries(2))

	require.Equal(t, 3, calls)
	require.ErrorContains(t, err, "retries exhausted after 3 attempts")
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, 502, httpErr.StatusCode)
}

func TestDo_StopsWhenContextCancelled(t *testing.T) {
	origSleep := sleep
	sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	t.Cleanup(func() { sleep = origSleep })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, func() error {
		calls++
		return &HTTPError{StatusCode: 503}
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsRetryable(t *testing.T) {
	require.False(t, IsRetryable(nil))
	require.False(t, IsRetryable(errors.New("bad request")))

	require.True(t, IsRetryable(&HTTPError{StatusCode: 408}))
	require.True(t, IsRetryable(&HTTPError{StatusCode: 429}))
	require.True(t, IsRetryable(&HTTPError{StatusCode: 500}))
	require.True(t, IsRetryable(&HTTPError{StatusCode: 502}))
	require.True(t, IsRetryable(&HTTPError{StatusCode: 503}))
	require.True(t, IsRetryable(&HTTPError{StatusCode: 504}))
	require.False(t, IsRetryable(&HTTPError{StatusCode: 400}))
	require.False(t, IsRetryable(&HTTPError{StatusCode: 401}))
	require.False(t, IsRetryable(&HTTPError{StatusCode: 404}))

	var netErr net.Error = timeoutErr{}
	require.True(t, IsRetryable(netErr))

	require.True(t, IsRetryable(syscall.ECONNRESET))
	require.True(t, IsRetryable(syscall.ECONNREFUSED))
	require.True(t, IsRetryable(syscall.EPIPE))
	require.True(t, IsRetryable(context.DeadlineExceeded))
	require.False(t, IsRetryable(context.Canceled))
}

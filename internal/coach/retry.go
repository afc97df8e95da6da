package coach

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
	"time"
)

// statusCoder is implemented by upstream errors that carry an HTTP status
type statusCoder interface {
	StatusCode() int
}

// IsRetryable reports whether a generation failure is transient: a 5xx
// status, a reset or timed out connection, or a message mentioning "timeout"
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var sc statusCoder
	if errors.As(err, &sc) && sc.StatusCode() >= 500 {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ETIMEDOUT) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return strings.Contains(err.Error(), "timeout")
}

// Backoff returns the wait before the attempt after attempt n (0-based):
// base * 2^n
func Backoff(base time.Duration, attempt int) time.Duration {
	return base << uint(attempt)
}

// sleepContext waits for d without blocking other requests, returning early
// if ctx is cancelled
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

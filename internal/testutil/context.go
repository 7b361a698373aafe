package testutil

import (
	"context"
	"testing"
	"time"
)

// DefaultTimeout bounds a test context when the caller passes zero.
const DefaultTimeout = 5 * time.Second

// Context returns a context that is cancelled when the test ends or the
// timeout passes, whichever comes first. The timeout is shortened to leave a
// second before the test binary's own deadline.
func Context(t testing.TB, timeout time.Duration) context.Context {
	t.Helper()
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if dt, ok := t.(interface{ Deadline() (time.Time, bool) }); ok {
		if deadline, ok := dt.Deadline(); ok {
			if left := time.Until(deadline) - time.Second; left > 0 && left < timeout {
				timeout = left
			}
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// Cancelled returns a context that is already done.
func Cancelled(t testing.TB) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

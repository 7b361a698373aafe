package testutil

import (
	"testing"
	"time"
)

const pollInterval = 50 * time.Millisecond

// Eventually calls fn until it returns nil. When timeout passes first the
// test fails with the last error fn returned.
func Eventually(t testing.TB, timeout time.Duration, fn func() error) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		err := fn()
		if err == nil {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("condition not met after %s: %v", timeout, err)
		}
		time.Sleep(pollInterval)
	}
}

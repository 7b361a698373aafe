package testutil

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"

	"routenet/internal/logging"
)

// Logger returns a logger that writes through t.Log at TRACE.
func Logger(t testing.TB) logr.Logger {
	t.Helper()
	return funcr.New(func(prefix, args string) {
		t.Helper()
		if prefix != "" {
			t.Logf("%s: %s", prefix, args)
			return
		}
		t.Log(args)
	}, funcr.Options{Verbosity: logging.TRACE})
}

package logging

import (
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"

	"routenet/pkg/routing"
)

// Verbosity levels passed to logr.Logger.V. DEBUG and TRACE are the levels
// the routing engine logs at.
const (
	DEFAULT = 0
	VERBOSE = 1
	DEBUG   = routing.LogDebug
	TRACE   = routing.LogTrace
)

// New returns a logger writing one line per entry to w, keeping entries up
// to verbosity.
func New(w io.Writer, verbosity int) logr.Logger {
	if w == nil {
		return logr.Discard()
	}
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(w, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(w, args)
	}, funcr.Options{Verbosity: verbosity})
}

package routing

import "fmt"

// InvariantError reports a broken contract inside the engine. It is raised
// with panic and never returned: a counter that would be corrupted by
// continuing must not be touched.
type InvariantError struct {
	Op     string
	Detail string
}

// Error renders the operation and detail.
func (e *InvariantError) Error() string {
	return "routing: invariant violated in " + e.Op + ": " + e.Detail
}

func invariantf(op, format string, args ...interface{}) *InvariantError {
	return &InvariantError{Op: op, Detail: fmt.Sprintf(format, args...)}
}

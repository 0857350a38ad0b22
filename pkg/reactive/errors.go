package reactive

import (
	"errors"
	"fmt"
)

// ErrMaxDepth is reported when notifications nest deeper than the runtime's
// limit, which usually means a computation writes a key it depends on.
var ErrMaxDepth = errors.New("reactive: notification depth exceeded")

// ComputationError describes a dependent computation that failed while a
// write was notifying it.
type ComputationError struct {
	// ComputationID identifies the failed computation.
	ComputationID uint64

	// Name is the computation's name, if it has one.
	Name string

	// Key is the key whose write triggered the run.
	Key string

	// Recovered is the value recovered from the panic.
	Recovered any
}

// Error implements the error interface.
func (e *ComputationError) Error() string {
	name := e.Name
	if name == "" {
		name = fmt.Sprintf("#%d", e.ComputationID)
	}
	return fmt.Sprintf("reactive: computation %s failed on write to %q: %v", name, e.Key, e.Recovered)
}

// Unwrap returns the recovered value if it is an error.
func (e *ComputationError) Unwrap() error {
	if err, ok := e.Recovered.(error); ok {
		return err
	}
	return nil
}

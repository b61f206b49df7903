package graph

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned when a store is used before Open.
var ErrNotConnected = errors.New("graph store is not connected")

// ConnectionError reports an unreachable or unauthenticated database.
// It is never retried.
type ConnectionError struct {
	Backend string
	URI     string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s at %s; %v", e.Backend, e.URI, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// TransientError reports a failure that may succeed on retry: lost
// connectivity, deadlocks, conflicts and timeouts.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient execution error; %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err is or wraps a *TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// IsConnection reports whether err is or wraps a *ConnectionError.
func IsConnection(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

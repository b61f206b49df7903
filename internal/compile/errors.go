package compile

import (
	"errors"
	"fmt"
)

// InvariantViolation reports an internally inconsistent program. It means
// the compiler itself is broken, not that the input was malformed.
type InvariantViolation struct {
	// Index is the 0-based statement index, or -1 when not tied to one.
	Index     int
	Statement Statement
	Reason    string
}

func (e *InvariantViolation) Error() string {
	if e.Statement == nil {
		return fmt.Sprintf("compile invariant violated: %s", e.Reason)
	}
	return fmt.Sprintf("compile invariant violated at statement %d (%s): %s", e.Index+1, e.Statement, e.Reason)
}

// IsInvariantViolation reports whether err is or wraps an *InvariantViolation.
func IsInvariantViolation(err error) bool {
	var iv *InvariantViolation
	return errors.As(err, &iv)
}

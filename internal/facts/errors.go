package facts

import (
	"errors"
	"fmt"
)

// Parse error reasons.
const (
	ReasonUnsupportedArity  = "unsupported arity"
	ReasonNestedTerm        = "nested terms are not supported"
	ReasonUnterminatedFact  = "unterminated fact"
	ReasonUnterminatedQuote = "unterminated quoted identifier"
	ReasonInvalidEscape     = "invalid escape sequence"
	ReasonEmptyIdentifier   = "empty identifier"
	ReasonUnexpected        = "unexpected character"
)

// ParseError reports the first malformed fact in a source. Parsing stops at
// the first error; no facts are returned alongside it.
type ParseError struct {
	File   string
	Line   int
	Column int
	Reason string
	Detail string
}

func (e *ParseError) Error() string {
	loc := fmt.Sprintf("%d:%d", e.Line, e.Column)
	if e.File != "" {
		loc = e.File + ":" + loc
	}
	if e.Detail != "" {
		return fmt.Sprintf("parse error at %s: %s (%s)", loc, e.Reason, e.Detail)
	}
	return fmt.Sprintf("parse error at %s: %s", loc, e.Reason)
}

// IsParseError reports whether err is or wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

func newParseError(file string, pos Position, reason, detail string) *ParseError {
	return &ParseError{
		File:   file,
		Line:   pos.Line,
		Column: pos.Column,
		Reason: reason,
		Detail: detail,
	}
}

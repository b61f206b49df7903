// Package facts parses ground-fact source text into typed fact records and
// classifies them as entity labels or relationship edges.
//
// Supported facts:
//
//	unary_predicate(instance).
//	binary_predicate(subject, object).
package facts

import (
	"fmt"
	"strings"
	"unicode"
)

// Position is a 1-based line and column (in runes) within a fact source.
type Position struct {
	Line   int
	Column int
}

// String formats the position as line:column.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Fact is one parsed ground fact. Args holds the unquoted, unescaped
// argument identifiers in source order.
type Fact struct {
	Predicate string
	Args      []string
	Pos       Position
}

// Arity returns the number of arguments.
func (f Fact) Arity() int {
	return len(f.Args)
}

// String renders the fact back into fact notation, quoting identifiers
// that are not bare.
func (f Fact) String() string {
	args := make([]string, len(f.Args))
	for i, a := range f.Args {
		args[i] = QuoteIdentifier(a)
	}
	return fmt.Sprintf("%s(%s).", QuoteIdentifier(f.Predicate), strings.Join(args, ", "))
}

// QuoteIdentifier returns s as written in fact notation: bare when it only
// contains letters, digits and underscores, single-quoted otherwise.
func QuoteIdentifier(s string) string {
	if isBare(s) {
		return s
	}

	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

func isBare(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isIdentRune(r) {
			return false
		}
	}
	return true
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

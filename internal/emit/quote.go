// Package emit renders compiled programs as Cypher text, parameterized
// templates and JSON, and reads those formats back for execution.
package emit

import (
	"strings"
	"unicode"
)

// QuoteIdentifier renders a label or relationship type as a backtick-quoted
// Cypher identifier. Embedded backticks are doubled.
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

var stringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// QuoteString renders s as a single-quoted Cypher string literal.
func QuoteString(s string) string {
	return "'" + stringEscaper.Replace(s) + "'"
}

// propertyName renders a property key bare when it is a plain ASCII
// identifier and backtick-quoted otherwise.
func propertyName(name string) string {
	if isPlainIdentifier(name) {
		return name
	}
	return QuoteIdentifier(name)
}

func isPlainIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
		switch {
		case r == '_', unicode.IsLetter(r):
		case unicode.IsDigit(r) && i > 0:
		default:
			return false
		}
	}
	return true
}

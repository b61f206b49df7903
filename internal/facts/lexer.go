package facts

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokLParen
	tokRParen
	tokComma
	tokPeriod
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "identifier"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokComma:
		return "','"
	case tokPeriod:
		return "'.'"
	default:
		return "unknown token"
	}
}

type token struct {
	kind tokenKind
	text string
	pos  Position
}

// describe names the token for error details.
func (t token) describe() string {
	if t.kind == tokIdent {
		return fmt.Sprintf("identifier %s", QuoteIdentifier(t.text))
	}
	return t.kind.String()
}

// lexer splits fact source into tokens. Comments start at '%' outside a
// quoted identifier and run to the end of the line.
type lexer struct {
	file string
	src  []byte
	off  int
	pos  Position
}

func newLexer(file string, src []byte) *lexer {
	// Skip a UTF-8 byte order mark.
	if len(src) >= 3 && src[0] == 0xEF && src[1] == 0xBB && src[2] == 0xBF {
		src = src[3:]
	}
	return &lexer{
		file: file,
		src:  src,
		pos:  Position{Line: 1, Column: 1},
	}
}

func (l *lexer) peek() (rune, int) {
	if l.off >= len(l.src) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRune(l.src[l.off:])
}

func (l *lexer) advance(r rune, size int) {
	l.off += size
	if r == '\n' {
		l.pos.Line++
		l.pos.Column = 1
		return
	}
	l.pos.Column++
}

func (l *lexer) skipSpaceAndComments() {
	for {
		r, size := l.peek()
		switch {
		case size == 0:
			return
		case r == '%':
			for {
				r, size = l.peek()
				if size == 0 || r == '\n' {
					break
				}
				l.advance(r, size)
			}
		case unicode.IsSpace(r):
			l.advance(r, size)
		default:
			return
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipSpaceAndComments()

	start := l.pos
	r, size := l.peek()
	if size == 0 {
		return token{kind: tokEOF, pos: start}, nil
	}

	switch {
	case r == '(':
		l.advance(r, size)
		return token{kind: tokLParen, text: "(", pos: start}, nil
	case r == ')':
		l.advance(r, size)
		return token{kind: tokRParen, text: ")", pos: start}, nil
	case r == ',':
		l.advance(r, size)
		return token{kind: tokComma, text: ",", pos: start}, nil
	case r == '.':
		l.advance(r, size)
		return token{kind: tokPeriod, text: ".", pos: start}, nil
	case r == '\'' || r == '"':
		return l.quoted(r, size, start)
	case isIdentRune(r):
		return l.bare(start), nil
	case r == utf8.RuneError && size == 1:
		return token{}, newParseError(l.file, start, ReasonUnexpected, "invalid UTF-8 encoding")
	default:
		return token{}, newParseError(l.file, start, ReasonUnexpected, fmt.Sprintf("%q", r))
	}
}

func (l *lexer) bare(start Position) token {
	begin := l.off
	for {
		r, size := l.peek()
		if size == 0 || !isIdentRune(r) {
			break
		}
		l.advance(r, size)
	}
	return token{kind: tokIdent, text: string(l.src[begin:l.off]), pos: start}
}

// quoted reads a single- or double-quoted identifier. Quoted identifiers
// may not span lines.
func (l *lexer) quoted(quote rune, size int, start Position) (token, error) {
	l.advance(quote, size)

	var b strings.Builder
	for {
		r, size := l.peek()
		if size == 0 || r == '\n' {
			return token{}, newParseError(l.file, start, ReasonUnterminatedQuote, "")
		}

		if r == '\\' {
			escPos := l.pos
			l.advance(r, size)
			esc, escSize := l.peek()
			if escSize == 0 || esc == '\n' {
				return token{}, newParseError(l.file, start, ReasonUnterminatedQuote, "")
			}
			decoded, ok := unescape(esc)
			if !ok {
				return token{}, newParseError(l.file, escPos, ReasonInvalidEscape, fmt.Sprintf(`\%c`, esc))
			}
			l.advance(esc, escSize)
			b.WriteRune(decoded)
			continue
		}

		l.advance(r, size)
		if r == quote {
			break
		}
		b.WriteRune(r)
	}

	if b.Len() == 0 {
		return token{}, newParseError(l.file, start, ReasonEmptyIdentifier, "")
	}
	return token{kind: tokIdent, text: b.String(), pos: start}, nil
}

func unescape(r rune) (rune, bool) {
	switch r {
	case '\\', '\'', '"':
		return r, true
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	default:
		return 0, false
	}
}

package facts

import (
	"fmt"
	"iter"
	"os"
)

// Parser reads facts from an in-memory source.
type Parser struct {
	name string
	src  []byte
}

// NewParser creates a parser over src. The name is used in error positions
// and may be empty.
func NewParser(name string, src []byte) *Parser {
	return &Parser{name: name, src: src}
}

// All returns the facts of the source in order. Each call rescans the
// source from the beginning. The sequence ends after the first error.
func (p *Parser) All() iter.Seq2[Fact, error] {
	return func(yield func(Fact, error) bool) {
		lx := newLexer(p.name, p.src)
		for {
			fact, ok, err := parseFact(lx)
			if err != nil {
				yield(Fact{}, err)
				return
			}
			if !ok {
				return
			}
			if !yield(fact, nil) {
				return
			}
		}
	}
}

// Parse parses the whole source. It fails on the first malformed fact and
// never returns facts alongside an error.
func Parse(name string, src []byte) ([]Fact, error) {
	var out []Fact
	for fact, err := range NewParser(name, src).All() {
		if err != nil {
			return nil, err
		}
		out = append(out, fact)
	}
	return out, nil
}

// ParseFile reads and parses the fact file at path.
func ParseFile(path string) ([]Fact, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fact file %s; %w", path, err)
	}
	return Parse(path, src)
}

// parseFact reads one fact. It returns ok=false at end of input.
func parseFact(lx *lexer) (Fact, bool, error) {
	head, err := lx.next()
	if err != nil {
		return Fact{}, false, err
	}

	switch head.kind {
	case tokEOF:
		return Fact{}, false, nil
	case tokIdent:
	default:
		return Fact{}, false, newParseError(lx.file, head.pos, ReasonUnexpected,
			fmt.Sprintf("expected predicate name, found %s", head.describe()))
	}

	tok, err := lx.next()
	if err != nil {
		return Fact{}, false, err
	}
	switch tok.kind {
	case tokLParen:
	case tokPeriod:
		return Fact{}, false, newParseError(lx.file, head.pos, ReasonUnsupportedArity,
			fmt.Sprintf("%s/0", QuoteIdentifier(head.text)))
	case tokEOF:
		return Fact{}, false, newParseError(lx.file, head.pos, ReasonUnterminatedFact, "")
	default:
		return Fact{}, false, newParseError(lx.file, tok.pos, ReasonUnexpected,
			fmt.Sprintf("expected '(' after %s, found %s", QuoteIdentifier(head.text), tok.describe()))
	}

	args, err := parseArgs(lx, head)
	if err != nil {
		return Fact{}, false, err
	}

	if n := len(args); n != 1 && n != 2 {
		return Fact{}, false, newParseError(lx.file, head.pos, ReasonUnsupportedArity,
			fmt.Sprintf("%s/%d", QuoteIdentifier(head.text), n))
	}

	end, err := lx.next()
	if err != nil {
		return Fact{}, false, err
	}
	if end.kind != tokPeriod {
		detail := fmt.Sprintf("expected '.' after %s(...)", QuoteIdentifier(head.text))
		if end.kind != tokEOF {
			detail += ", found " + end.describe()
		}
		return Fact{}, false, newParseError(lx.file, end.pos, ReasonUnterminatedFact, detail)
	}

	return Fact{Predicate: head.text, Args: args, Pos: head.pos}, true, nil
}

// parseArgs reads the comma-separated arguments after '(' up to and
// including ')'.
func parseArgs(lx *lexer, head token) ([]string, error) {
	var args []string
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}

		switch {
		case tok.kind == tokIdent:
		case tok.kind == tokRParen && len(args) == 0:
			return args, nil
		case tok.kind == tokEOF:
			return nil, newParseError(lx.file, head.pos, ReasonUnterminatedFact, "missing ')'")
		default:
			return nil, newParseError(lx.file, tok.pos, ReasonUnexpected,
				fmt.Sprintf("expected argument, found %s", tok.describe()))
		}
		args = append(args, tok.text)

		sep, err := lx.next()
		if err != nil {
			return nil, err
		}
		switch sep.kind {
		case tokComma:
		case tokRParen:
			return args, nil
		case tokLParen:
			return nil, newParseError(lx.file, tok.pos, ReasonNestedTerm,
				fmt.Sprintf("%s(...)", QuoteIdentifier(tok.text)))
		case tokEOF:
			return nil, newParseError(lx.file, head.pos, ReasonUnterminatedFact, "missing ')'")
		default:
			return nil, newParseError(lx.file, sep.pos, ReasonUnexpected,
				fmt.Sprintf("expected ',' or ')', found %s", sep.describe()))
		}
	}
}

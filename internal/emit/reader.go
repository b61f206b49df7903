package emit

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LoadTemplates reads compiled statements from path. Files ending in .json
// are decoded as a statement document, anything else as Cypher text. A path
// of "-" reads Cypher text from stdin.
func LoadTemplates(path string) ([]Template, error) {
	if path == "-" {
		return ReadStatements(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open statement file %s; %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ReadTemplates(f)
	}
	return ReadStatements(f)
}

type scanState int

const (
	stateCode scanState = iota
	stateSingle
	stateDouble
	stateBacktick
	stateLineComment
	stateBlockComment
)

// ReadStatements splits Cypher text into statements on ";" outside string
// literals, backtick identifiers and comments. Comments are dropped and
// blank statements skipped; a final statement without ";" is kept.
func ReadStatements(r io.Reader) ([]Template, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read statements; %w", err)
	}
	src := []rune(string(data))

	var (
		out   []Template
		cur   strings.Builder
		state = stateCode
	)
	flush := func() {
		text := strings.TrimSpace(cur.String())
		if text != "" {
			out = append(out, Template{Cypher: text})
		}
		cur.Reset()
	}

	for i := 0; i < len(src); i++ {
		c := src[i]
		var next rune
		if i+1 < len(src) {
			next = src[i+1]
		}

		switch state {
		case stateCode:
			switch {
			case c == ';':
				flush()
				continue
			case c == '/' && next == '/':
				state = stateLineComment
				i++
				continue
			case c == '/' && next == '*':
				state = stateBlockComment
				i++
				continue
			case c == '\'':
				state = stateSingle
			case c == '"':
				state = stateDouble
			case c == '`':
				state = stateBacktick
			}
			cur.WriteRune(c)
		case stateSingle, stateDouble:
			cur.WriteRune(c)
			if c == '\\' && i+1 < len(src) {
				cur.WriteRune(next)
				i++
				continue
			}
			if (state == stateSingle && c == '\'') || (state == stateDouble && c == '"') {
				state = stateCode
			}
		case stateBacktick:
			cur.WriteRune(c)
			if c == '`' {
				state = stateCode
			}
		case stateLineComment:
			if c == '\n' {
				state = stateCode
				cur.WriteRune(c)
			}
		case stateBlockComment:
			if c == '*' && next == '/' {
				state = stateCode
				i++
			}
		}
	}

	switch state {
	case stateSingle, stateDouble:
		return nil, fmt.Errorf("unterminated string literal in statement %d", len(out)+1)
	case stateBacktick:
		return nil, fmt.Errorf("unterminated quoted identifier in statement %d", len(out)+1)
	case stateBlockComment:
		return nil, fmt.Errorf("unterminated block comment in statement %d", len(out)+1)
	}
	flush()
	return out, nil
}

package compile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/GigaGaiaWorld/codex/internal/facts"
	"github.com/GigaGaiaWorld/codex/internal/fsutil"
)

// CompileSource parses, classifies and compiles src. name is used in
// diagnostics and recorded as the program source.
func CompileSource(name string, src []byte) (*Program, error) {
	parsed, err := facts.Parse(name, src)
	if err != nil {
		return nil, err
	}

	classified, err := facts.ClassifyAll(parsed)
	if err != nil {
		var pe *facts.ParseError
		if errors.As(err, &pe) && pe.File == "" {
			pe.File = name
		}
		return nil, err
	}

	program, err := Compile(classified)
	if err != nil {
		return nil, err
	}
	program.Source = name
	program.Digest = fsutil.HashBytes(src)
	return program, nil
}

// CompileFile compiles the fact file at path. A path of "-" reads stdin.
func CompileFile(path string) (*Program, error) {
	return CompileFileAs(path, path)
}

// CompileFileAs compiles the fact file at path and names it name in
// diagnostics and in the program source.
func CompileFileAs(path, name string) (*Program, error) {
	var (
		src []byte
		err error
	)
	if path == "-" {
		src, err = io.ReadAll(os.Stdin)
	} else {
		src, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read fact file %s; %w", name, err)
	}
	return CompileSource(name, src)
}

package emit

import (
	"fmt"
	"slices"

	"github.com/GigaGaiaWorld/codex/internal/compile"
)

// Result describes one emit operation.
type Result struct {
	Format      string `json:"format"`
	ContentType string `json:"content_type"`
	Statements  int    `json:"statements"`
	OutputSize  int    `json:"output_size"`
}

// Emitter renders compiled programs in registered formats.
type Emitter struct {
	formatters map[string]Formatter
}

// NewEmitter creates an emitter with the cypher and json formatters
// registered.
func NewEmitter(opts Options) *Emitter {
	e := &Emitter{
		formatters: make(map[string]Formatter),
	}

	e.RegisterFormatter(NewCypherFormatter(opts))
	e.RegisterFormatter(NewJSONFormatter(opts))

	return e
}

// RegisterFormatter registers f under its name.
func (e *Emitter) RegisterFormatter(f Formatter) {
	e.formatters[f.Name()] = f
}

// Formatter returns the formatter registered under name.
func (e *Emitter) Formatter(name string) (Formatter, bool) {
	f, ok := e.formatters[name]
	return f, ok
}

// Emit renders program in the named format.
func (e *Emitter) Emit(program *compile.Program, format string) ([]byte, *Result, error) {
	formatter, ok := e.formatters[format]
	if !ok {
		return nil, nil, fmt.Errorf("unknown format: %s", format)
	}

	out, err := formatter.Format(program)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to format program; %w", err)
	}

	return out, &Result{
		Format:      format,
		ContentType: formatter.ContentType(),
		Statements:  len(program.Statements),
		OutputSize:  len(out),
	}, nil
}

// ListFormats returns the registered format names, sorted.
func (e *Emitter) ListFormats() []string {
	formats := make([]string, 0, len(e.formatters))
	for name := range e.formatters {
		formats = append(formats, name)
	}
	slices.Sort(formats)
	return formats
}

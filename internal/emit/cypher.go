package emit

import (
	"bytes"

	"github.com/GigaGaiaWorld/codex/internal/compile"
)

// CypherFormatter formats programs as Cypher text, one statement per line.
type CypherFormatter struct {
	opts Options
}

// NewCypherFormatter creates a new Cypher formatter.
func NewCypherFormatter(opts Options) *CypherFormatter {
	return &CypherFormatter{opts: opts.withDefaults()}
}

// Name returns the formatter name.
func (f *CypherFormatter) Name() string {
	return "cypher"
}

// ContentType returns the MIME content type.
func (f *CypherFormatter) ContentType() string {
	return "application/x-cypher-query"
}

// FileExtension returns the typical file extension.
func (f *CypherFormatter) FileExtension() string {
	return ".cypher"
}

// Format renders each statement with inlined literals, terminated by ";".
func (f *CypherFormatter) Format(program *compile.Program) ([]byte, error) {
	r := newRenderer(f.opts)

	var buf bytes.Buffer
	for _, s := range program.Statements {
		buf.WriteString(r.literal(s))
		buf.WriteString(";\n")
	}
	return buf.Bytes(), nil
}

package emit

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/GigaGaiaWorld/codex/internal/compile"
)

// DocumentVersion is the version of the JSON document layout.
const DocumentVersion = 1

// JSONFormatter formats programs as a JSON document of parameterized
// templates.
type JSONFormatter struct {
	opts Options
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(opts Options) *JSONFormatter {
	return &JSONFormatter{opts: opts.withDefaults()}
}

// Name returns the formatter name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// ContentType returns the MIME content type.
func (f *JSONFormatter) ContentType() string {
	return "application/json"
}

// FileExtension returns the typical file extension.
func (f *JSONFormatter) FileExtension() string {
	return ".json"
}

// Document is the JSON representation of a compiled program.
type Document struct {
	Version      int           `json:"version"`
	Source       string        `json:"source,omitempty"`
	SourceSHA256 string        `json:"source_sha256,omitempty"`
	EntityLabel  string        `json:"entity_label"`
	KeyProperty  string        `json:"key_property"`
	Stats        compile.Stats `json:"stats"`
	Statements   []Template    `json:"statements"`
}

// Format converts the program to JSON.
func (f *JSONFormatter) Format(program *compile.Program) ([]byte, error) {
	doc := Document{
		Version:      DocumentVersion,
		Source:       program.Source,
		SourceSHA256: program.Digest,
		EntityLabel:  f.opts.EntityLabel,
		KeyProperty:  f.opts.KeyProperty,
		Stats:        program.Stats,
		Statements:   Templates(program, f.opts),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON; %w", err)
	}
	return append(data, '\n'), nil
}

// ReadTemplates decodes a JSON document produced by JSONFormatter.
func ReadTemplates(r io.Reader) ([]Template, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode statement document; %w", err)
	}
	if doc.Version != DocumentVersion {
		return nil, fmt.Errorf("unsupported statement document version %d", doc.Version)
	}
	for i, t := range doc.Statements {
		if t.Cypher == "" {
			return nil, fmt.Errorf("statement %d has no cypher text", i+1)
		}
	}
	return doc.Statements, nil
}

package emit

import (
	"fmt"

	"github.com/GigaGaiaWorld/codex/internal/compile"
)

// Defaults for Options.
const (
	DefaultEntityLabel = "Entity"
	DefaultKeyProperty = "id"
)

// Options controls how statements are rendered.
type Options struct {
	// EntityLabel is the label every entity node carries.
	EntityLabel string
	// KeyProperty is the node property holding the entity identifier.
	KeyProperty string
}

// DefaultOptions returns the default rendering options.
func DefaultOptions() Options {
	return Options{
		EntityLabel: DefaultEntityLabel,
		KeyProperty: DefaultKeyProperty,
	}
}

func (o Options) withDefaults() Options {
	if o.EntityLabel == "" {
		o.EntityLabel = DefaultEntityLabel
	}
	if o.KeyProperty == "" {
		o.KeyProperty = DefaultKeyProperty
	}
	return o
}

// Template is one executable statement: Cypher text plus its parameters.
// Templates read back from plain Cypher text carry an empty Kind and no
// parameters.
type Template struct {
	Kind   compile.Kind   `json:"kind,omitempty"`
	Cypher string         `json:"cypher"`
	Params map[string]any `json:"params,omitempty"`
}

// Templates renders every statement of program as a parameterized template.
// Labels and relationship types cannot be Cypher parameters, so they are
// inlined quoted; identifiers travel as $id, $subject and $object.
func Templates(program *compile.Program, opts Options) []Template {
	r := newRenderer(opts)
	out := make([]Template, 0, len(program.Statements))
	for _, s := range program.Statements {
		out = append(out, r.template(s))
	}
	return out
}

type renderer struct {
	label string
	key   string
}

func newRenderer(opts Options) renderer {
	opts = opts.withDefaults()
	return renderer{
		label: QuoteIdentifier(opts.EntityLabel),
		key:   propertyName(opts.KeyProperty),
	}
}

func (r renderer) node(variable, value string) string {
	return fmt.Sprintf("(%s:%s {%s: %s})", variable, r.label, r.key, value)
}

func (r renderer) template(s compile.Statement) Template {
	switch v := s.(type) {
	case compile.UpsertEntity:
		return Template{
			Kind:   v.Kind(),
			Cypher: "MERGE " + r.node("n", "$id"),
			Params: map[string]any{"id": v.ID},
		}
	case compile.AttachLabel:
		return Template{
			Kind:   v.Kind(),
			Cypher: "MERGE " + r.node("n", "$id") + " SET n:" + QuoteIdentifier(v.Label),
			Params: map[string]any{"id": v.ID},
		}
	case compile.UpsertRelationship:
		return Template{
			Kind: v.Kind(),
			Cypher: "MERGE " + r.node("s", "$subject") +
				" MERGE " + r.node("o", "$object") +
				" MERGE (s)-[:" + QuoteIdentifier(v.RelType) + "]->(o)",
			Params: map[string]any{"subject": v.SubjectID, "object": v.ObjectID},
		}
	}
	panic(fmt.Sprintf("emit: unknown statement %T", s))
}

// literal renders a statement as self-contained Cypher with inlined values.
func (r renderer) literal(s compile.Statement) string {
	switch v := s.(type) {
	case compile.UpsertEntity:
		return "MERGE " + r.node("n", QuoteString(v.ID))
	case compile.AttachLabel:
		return "MERGE " + r.node("n", QuoteString(v.ID)) + " SET n:" + QuoteIdentifier(v.Label)
	case compile.UpsertRelationship:
		return "MERGE " + r.node("s", QuoteString(v.SubjectID)) +
			" MERGE " + r.node("o", QuoteString(v.ObjectID)) +
			" MERGE (s)-[:" + QuoteIdentifier(v.RelType) + "]->(o)"
	}
	panic(fmt.Sprintf("emit: unknown statement %T", s))
}

package compile

import (
	"fmt"

	"github.com/GigaGaiaWorld/codex/internal/facts"
)

// Stats summarizes a compilation.
type Stats struct {
	Facts                  int `json:"facts"`
	Entities               int `json:"entities"`
	Labels                 int `json:"labels"`
	Relationships          int `json:"relationships"`
	DuplicateLabels        int `json:"duplicate_labels"`
	DuplicateRelationships int `json:"duplicate_relationships"`
}

// Program is the compiled, ordered statement sequence for one fact source.
type Program struct {
	// Source names the input, "" or "-" for stdin.
	Source string
	// Digest is the hex SHA-256 of the source bytes, empty when compiled
	// from already classified facts.
	Digest     string
	Statements []Statement
	Stats      Stats
}

type labelKey struct {
	id, label string
}

type edgeKey struct {
	subject, rel, object string
}

// compiler holds the membership sets. Ordering comes from the statement
// slice only, so output never depends on map iteration.
type compiler struct {
	entities map[string]struct{}
	labels   map[labelKey]struct{}
	edges    map[edgeKey]struct{}
	program  *Program
}

// Compile converts classified facts into a program. Every entity is upserted
// before any label or relationship references it, each entity, label pair and
// each relationship triple appears at most once, and statements follow the
// first occurrence order of the facts.
func Compile(classified []facts.Classified) (*Program, error) {
	c := &compiler{
		entities: make(map[string]struct{}),
		labels:   make(map[labelKey]struct{}),
		edges:    make(map[edgeKey]struct{}),
		program:  &Program{},
	}

	for _, item := range classified {
		c.program.Stats.Facts++
		switch v := item.(type) {
		case facts.EntityLabel:
			c.addLabel(v)
		case facts.RelationshipEdge:
			c.addEdge(v)
		default:
			return nil, &InvariantViolation{Index: -1, Reason: fmt.Sprintf("unknown classified fact %T", item)}
		}
	}

	if err := Verify(c.program.Statements); err != nil {
		return nil, err
	}
	return c.program, nil
}

func (c *compiler) emit(s Statement) {
	c.program.Statements = append(c.program.Statements, s)
}

func (c *compiler) ensureEntity(id string) {
	if _, ok := c.entities[id]; ok {
		return
	}
	c.entities[id] = struct{}{}
	c.program.Stats.Entities++
	c.emit(UpsertEntity{ID: id})
}

func (c *compiler) addLabel(l facts.EntityLabel) {
	c.ensureEntity(l.EntityID)

	key := labelKey{id: l.EntityID, label: l.Label}
	if _, ok := c.labels[key]; ok {
		c.program.Stats.DuplicateLabels++
		return
	}
	c.labels[key] = struct{}{}
	c.program.Stats.Labels++
	c.emit(AttachLabel{ID: l.EntityID, Label: l.Label})
}

func (c *compiler) addEdge(e facts.RelationshipEdge) {
	c.ensureEntity(e.SubjectID)
	c.ensureEntity(e.ObjectID)

	key := edgeKey{subject: e.SubjectID, rel: e.RelType, object: e.ObjectID}
	if _, ok := c.edges[key]; ok {
		c.program.Stats.DuplicateRelationships++
		return
	}
	c.edges[key] = struct{}{}
	c.program.Stats.Relationships++
	c.emit(UpsertRelationship{SubjectID: e.SubjectID, RelType: e.RelType, ObjectID: e.ObjectID})
}

// Verify checks that statements reference only previously upserted entities,
// contain no duplicates and carry no empty names.
func Verify(statements []Statement) error {
	entities := make(map[string]struct{})
	labels := make(map[labelKey]struct{})
	edges := make(map[edgeKey]struct{})

	violation := func(i int, s Statement, reason string) error {
		return &InvariantViolation{Index: i, Statement: s, Reason: reason}
	}
	requireEntity := func(i int, s Statement, id string) error {
		if _, ok := entities[id]; !ok {
			return violation(i, s, fmt.Sprintf("entity %q referenced before upsert", id))
		}
		return nil
	}

	for i, s := range statements {
		switch v := s.(type) {
		case UpsertEntity:
			if v.ID == "" {
				return violation(i, s, "empty entity id")
			}
			if _, ok := entities[v.ID]; ok {
				return violation(i, s, "duplicate entity upsert")
			}
			entities[v.ID] = struct{}{}
		case AttachLabel:
			if v.Label == "" {
				return violation(i, s, "empty label")
			}
			if err := requireEntity(i, s, v.ID); err != nil {
				return err
			}
			key := labelKey{id: v.ID, label: v.Label}
			if _, ok := labels[key]; ok {
				return violation(i, s, "duplicate label")
			}
			labels[key] = struct{}{}
		case UpsertRelationship:
			if v.RelType == "" {
				return violation(i, s, "empty relationship type")
			}
			if err := requireEntity(i, s, v.SubjectID); err != nil {
				return err
			}
			if err := requireEntity(i, s, v.ObjectID); err != nil {
				return err
			}
			key := edgeKey{subject: v.SubjectID, rel: v.RelType, object: v.ObjectID}
			if _, ok := edges[key]; ok {
				return violation(i, s, "duplicate relationship")
			}
			edges[key] = struct{}{}
		default:
			return violation(i, s, fmt.Sprintf("unknown statement %T", s))
		}
	}
	return nil
}

// Package compile turns classified facts into an ordered, deduplicated
// program of idempotent graph upserts.
package compile

import "fmt"

// Kind identifies a statement type.
type Kind string

// Statement kinds.
const (
	KindUpsertEntity       Kind = "upsert_entity"
	KindAttachLabel        Kind = "attach_label"
	KindUpsertRelationship Kind = "upsert_relationship"
)

// Statement is one idempotent graph update.
type Statement interface {
	Kind() Kind
	String() string
}

// UpsertEntity ensures an entity node exists for ID.
type UpsertEntity struct {
	ID string
}

// Kind returns KindUpsertEntity.
func (UpsertEntity) Kind() Kind { return KindUpsertEntity }

func (s UpsertEntity) String() string {
	return fmt.Sprintf("upsert entity %q", s.ID)
}

// AttachLabel ensures the entity ID carries Label.
type AttachLabel struct {
	ID    string
	Label string
}

// Kind returns KindAttachLabel.
func (AttachLabel) Kind() Kind { return KindAttachLabel }

func (s AttachLabel) String() string {
	return fmt.Sprintf("attach label %q to %q", s.Label, s.ID)
}

// UpsertRelationship ensures a RelType edge exists from SubjectID to ObjectID.
type UpsertRelationship struct {
	SubjectID string
	RelType   string
	ObjectID  string
}

// Kind returns KindUpsertRelationship.
func (UpsertRelationship) Kind() Kind { return KindUpsertRelationship }

func (s UpsertRelationship) String() string {
	return fmt.Sprintf("merge relationship %q from %q to %q", s.RelType, s.SubjectID, s.ObjectID)
}

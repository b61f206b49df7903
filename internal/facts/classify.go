package facts

import "fmt"

// Classified is a fact interpreted as a graph primitive: either an
// EntityLabel or a RelationshipEdge.
type Classified interface {
	// Position returns where the originating fact starts.
	Position() Position

	classified()
}

// EntityLabel is a unary fact: label(entity).
type EntityLabel struct {
	EntityID string
	Label    string
	Pos      Position
}

// Position returns where the originating fact starts.
func (e EntityLabel) Position() Position { return e.Pos }

func (EntityLabel) classified() {}

// RelationshipEdge is a binary fact: type(subject, object).
type RelationshipEdge struct {
	SubjectID string
	RelType   string
	ObjectID  string
	Pos       Position
}

// Position returns where the originating fact starts.
func (r RelationshipEdge) Position() Position { return r.Pos }

func (RelationshipEdge) classified() {}

// Classify maps a fact onto its graph primitive by arity.
func Classify(f Fact) (Classified, error) {
	switch len(f.Args) {
	case 1:
		return EntityLabel{EntityID: f.Args[0], Label: f.Predicate, Pos: f.Pos}, nil
	case 2:
		return RelationshipEdge{SubjectID: f.Args[0], RelType: f.Predicate, ObjectID: f.Args[1], Pos: f.Pos}, nil
	default:
		return nil, newParseError("", f.Pos, ReasonUnsupportedArity,
			fmt.Sprintf("%s/%d", QuoteIdentifier(f.Predicate), len(f.Args)))
	}
}

// ClassifyAll classifies facts in order, failing on the first fact with an
// unsupported arity.
func ClassifyAll(facts []Fact) ([]Classified, error) {
	out := make([]Classified, 0, len(facts))
	for _, f := range facts {
		c, err := Classify(f)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

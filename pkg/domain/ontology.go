package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// IndividualID identifies an individual in an ontology ABox.
type IndividualID string

// ClassID identifies a class in an ontology TBox.
type ClassID string

// Thing is the universal class. Every individual is an instance of it.
const Thing ClassID = "owl:Thing"

// Tuple is an ordered candidate argument list. Slot 0 is the self instance.
type Tuple []IndividualID

// Self returns the self instance of the tuple.
func (t Tuple) Self() IndividualID {
	if len(t) == 0 {
		return ""
	}
	return t[0]
}

// Key returns a stable digest of the tuple, used to remember reified tuples.
func (t Tuple) Key() string {
	parts := make([]string, len(t))
	for i, id := range t {
		parts[i] = string(id)
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(sum[:])
}

// String renders the tuple as (a, b, c).
func (t Tuple) String() string {
	parts := make([]string, len(t))
	for i, id := range t {
		parts[i] = string(id)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Datatype is the declared range of a data property.
type Datatype string

const (
	DatatypeAny     Datatype = ""
	DatatypeString  Datatype = "string"
	DatatypeInteger Datatype = "integer"
	DatatypeFloat   Datatype = "float"
	DatatypeBoolean Datatype = "boolean"
)

// Accepts reports whether v shallowly fits the datatype.
// Integers are accepted where floats are declared.
func (d Datatype) Accepts(v any) bool {
	if v == nil {
		return false
	}
	switch d {
	case DatatypeAny:
		return true
	case DatatypeString:
		_, ok := v.(string)
		return ok
	case DatatypeBoolean:
		_, ok := v.(bool)
		return ok
	case DatatypeInteger:
		return isInteger(v)
	case DatatypeFloat:
		switch v.(type) {
		case float32, float64:
			return true
		}
		return isInteger(v)
	default:
		return false
	}
}

func isInteger(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

// View is the read access an evaluated function has on the ontology.
type View interface {
	// Classes returns the asserted classes of an individual.
	Classes(ctx context.Context, id IndividualID) ([]ClassID, error)

	// ObjectValues returns the targets of an object property asserted on an individual.
	ObjectValues(ctx context.Context, id IndividualID, property string) ([]IndividualID, error)

	// DataValues returns the values of a data property asserted on an individual.
	DataValues(ctx context.Context, id IndividualID, property string) ([]any, error)
}

// Description is a snapshot of everything asserted about one individual.
type Description struct {
	ID      IndividualID              `json:"id" yaml:"id"`
	Classes []ClassID                 `json:"types" yaml:"types"`
	Objects map[string][]IndividualID `json:"objects,omitempty" yaml:"objects,omitempty"`
	Data    map[string][]any          `json:"data,omitempty" yaml:"data,omitempty"`
}

// QuerySpec references an external query that defines a directive search space.
// Exactly one of Text and File is set.
type QuerySpec struct {
	// Text is the inline query source.
	Text string `json:"text,omitempty"`

	// File is a path to the query source, read when the search space is resolved.
	File string `json:"file,omitempty"`

	// Variables is the declared variable order used to map rows to tuples.
	// When empty, the order reported by the query engine is used.
	Variables []string `json:"variables,omitempty"`
}

// Ref returns a short human readable reference to the query.
func (q QuerySpec) Ref() string {
	if q.File != "" {
		return q.File
	}
	if len(q.Text) > 40 {
		return q.Text[:40] + "..."
	}
	return q.Text
}

// Binding maps query variables to individual identities.
type Binding map[string]IndividualID

// Rows is the ordered result of a query.
type Rows struct {
	Variables []string
	Bindings  []Binding
}

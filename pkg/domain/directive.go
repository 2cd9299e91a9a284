package domain

import (
	"context"
	"fmt"
	"slices"
)

// Kind enumerates the six augmentation kinds.
type Kind int

const (
	KindClassSubsumption Kind = iota
	KindClassEquivalence
	KindObjectProperty
	KindDataProperty
	KindReifiedObjectProperty
	KindReifiedDataProperty
)

var kindNames = map[Kind]string{
	KindClassSubsumption:      "class_subsumption",
	KindClassEquivalence:      "class_equivalence",
	KindObjectProperty:        "object_property",
	KindDataProperty:          "data_property",
	KindReifiedObjectProperty: "reified_object_property",
	KindReifiedDataProperty:   "reified_data_property",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Boolean reports whether functions of this kind return a truth value.
// The data property kinds return a payload value instead.
func (k Kind) Boolean() bool {
	return k != KindDataProperty && k != KindReifiedDataProperty
}

// Spec is the kind-specific part of a directive. The concrete types below are
// the only implementations.
type Spec interface {
	Kind() Kind
	// Arity is the number of tuple positions, the self instance included.
	Arity() int
	// Validate checks the kind-specific parameters.
	Validate() error

	isSpec()
}

// ClassSubsumption asserts Target on the self instance when the function holds.
// It never retracts. An empty Target means the owning class.
type ClassSubsumption struct {
	Target ClassID
}

func (ClassSubsumption) Kind() Kind      { return KindClassSubsumption }
func (ClassSubsumption) Arity() int      { return 1 }
func (ClassSubsumption) Validate() error { return nil }
func (ClassSubsumption) isSpec()         {}

// ClassEquivalence asserts Target when the function holds and retracts it otherwise.
// An empty Target means the owning class.
type ClassEquivalence struct {
	Target ClassID
}

func (ClassEquivalence) Kind() Kind      { return KindClassEquivalence }
func (ClassEquivalence) Arity() int      { return 1 }
func (ClassEquivalence) Validate() error { return nil }
func (ClassEquivalence) isSpec()         {}

// ObjectProperty asserts Property from the self instance to the second tuple slot.
type ObjectProperty struct {
	Property string
}

func (ObjectProperty) Kind() Kind { return KindObjectProperty }
func (ObjectProperty) Arity() int { return 2 }
func (s ObjectProperty) Validate() error {
	if s.Property == "" {
		return fmt.Errorf("object property name is required")
	}
	return nil
}
func (ObjectProperty) isSpec() {}

// DataProperty fills Property on the self instance once.
type DataProperty struct {
	Property string
}

func (DataProperty) Kind() Kind { return KindDataProperty }
func (DataProperty) Arity() int { return 1 }
func (s DataProperty) Validate() error {
	if s.Property == "" {
		return fmt.Errorf("data property name is required")
	}
	return nil
}
func (DataProperty) isSpec() {}

// ReifiedObjectProperty creates an individual of Class per holding tuple and
// links Properties[i] to tuple slot i.
type ReifiedObjectProperty struct {
	Class      ClassID
	Properties []string
}

func (ReifiedObjectProperty) Kind() Kind   { return KindReifiedObjectProperty }
func (s ReifiedObjectProperty) Arity() int { return len(s.Properties) }
func (s ReifiedObjectProperty) Validate() error {
	if s.Class == "" {
		return fmt.Errorf("reification class is required")
	}
	if len(s.Properties) < 2 {
		return fmt.Errorf("reified object property needs at least 2 property names, got %d", len(s.Properties))
	}
	for i, p := range s.Properties {
		if p == "" {
			return fmt.Errorf("property name %d is empty", i)
		}
	}
	return nil
}
func (ReifiedObjectProperty) isSpec() {}

// ReifiedDataProperty creates an individual of Class per valued pair, links
// From and To to the pair and sets Property to the returned value.
type ReifiedDataProperty struct {
	Class    ClassID
	From     string
	To       string
	Property string
}

func (ReifiedDataProperty) Kind() Kind { return KindReifiedDataProperty }
func (ReifiedDataProperty) Arity() int { return 2 }
func (s ReifiedDataProperty) Validate() error {
	switch {
	case s.Class == "":
		return fmt.Errorf("reification class is required")
	case s.From == "" || s.To == "":
		return fmt.Errorf("from and to property names are required")
	case s.Property == "":
		return fmt.Errorf("data property name is required")
	}
	return nil
}
func (ReifiedDataProperty) isSpec() {}

// Call is what a directive function receives for one candidate tuple.
type Call struct {
	Self IndividualID
	Args []IndividualID
	View View
}

// Arg returns the i-th extra argument, or "" if absent.
func (c Call) Arg(i int) IndividualID {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}

// Func is a user function evaluated per candidate tuple. Boolean kinds must
// return a bool; data kinds return the value to assert, or nil for none.
type Func func(ctx context.Context, call Call) (any, error)

// Predicate adapts a typed boolean function.
func Predicate(fn func(ctx context.Context, call Call) (bool, error)) Func {
	if fn == nil {
		return nil
	}
	return func(ctx context.Context, call Call) (any, error) {
		return fn(ctx, call)
	}
}

// Value adapts a typed value function.
func Value[T any](fn func(ctx context.Context, call Call) (T, error)) Func {
	if fn == nil {
		return nil
	}
	return func(ctx context.Context, call Call) (any, error) {
		v, err := fn(ctx, call)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// Directive attaches a function to an augmented class.
// It is identified by (Class, Name).
type Directive struct {
	Class ClassID
	Name  string
	Spec  Spec
	Func  Func

	// Params constrains the types of the extra tuple positions, in order.
	// Missing or empty entries mean Thing.
	Params []ClassID

	// Query, when set, replaces type based enumeration.
	Query *QuerySpec
}

// ID returns the directive identity, "Class.Name".
func (d Directive) ID() string {
	return string(d.Class) + "." + d.Name
}

// Kind returns the augmentation kind of the directive.
func (d Directive) Kind() Kind {
	return d.Spec.Kind()
}

// Arity returns the tuple arity, the self instance included.
func (d Directive) Arity() int {
	return d.Spec.Arity()
}

// PositionTypes returns the class constraint of every tuple position.
// Position 0 is the owning class.
func (d Directive) PositionTypes() []ClassID {
	types := make([]ClassID, d.Arity())
	if len(types) == 0 {
		return types
	}
	types[0] = d.Class
	for i := 1; i < len(types); i++ {
		types[i] = Thing
		if i-1 < len(d.Params) && d.Params[i-1] != "" {
			types[i] = d.Params[i-1]
		}
	}
	return types
}

// Target returns the class asserted by the class kinds.
func (d Directive) Target() ClassID {
	switch s := d.Spec.(type) {
	case ClassSubsumption:
		if s.Target != "" {
			return s.Target
		}
	case ClassEquivalence:
		if s.Target != "" {
			return s.Target
		}
	}
	return d.Class
}

// Clone returns a deep copy so that registered directives cannot be changed
// through the caller's slices.
func (d Directive) Clone() Directive {
	c := d
	c.Params = slices.Clone(d.Params)
	if d.Query != nil {
		q := *d.Query
		q.Variables = slices.Clone(d.Query.Variables)
		c.Query = &q
	}
	if s, ok := d.Spec.(ReifiedObjectProperty); ok {
		s.Properties = slices.Clone(s.Properties)
		c.Spec = s
	}
	return c
}

// Verdict is the evaluated result of a directive for one tuple.
type Verdict struct {
	// Holds is the truth value for boolean kinds.
	Holds bool

	// Value is the payload for data kinds. Nil means no value.
	Value any
}

package runtime

import (
	"context"
	"fmt"
	"slices"

	"github.com/aretw0/augur/pkg/domain"
	"github.com/aretw0/augur/pkg/ports"
)

// FunctionError wraps an error returned by a directive function.
type FunctionError struct {
	Directive string
	Tuple     domain.Tuple
	Err       error
}

func (e *FunctionError) Error() string {
	return fmt.Sprintf("%s%s: %v", e.Directive, e.Tuple, e.Err)
}

func (e *FunctionError) Unwrap() error { return e.Err }

// Evaluator invokes directive functions and checks the shape of their results.
type Evaluator struct{}

// Evaluate calls d.Func for tuple. Boolean kinds must return a bool. Value
// kinds may return nil (no value) or a value accepted by the declared range of
// the data property.
func (Evaluator) Evaluate(ctx context.Context, onto ports.Ontology, d domain.Directive, tuple domain.Tuple) (domain.Verdict, error) {
	call := domain.Call{
		Self: tuple.Self(),
		Args: slices.Clone(tuple[1:]),
		View: onto,
	}
	out, err := d.Func(ctx, call)
	if err != nil {
		return domain.Verdict{}, &FunctionError{Directive: d.ID(), Tuple: tuple, Err: err}
	}

	if d.Kind().Boolean() {
		holds, ok := out.(bool)
		if !ok {
			return domain.Verdict{}, &domain.TypeMismatchError{Directive: d.ID(), Tuple: tuple, Expected: "bool", Got: out}
		}
		return domain.Verdict{Holds: holds}, nil
	}

	if out == nil {
		return domain.Verdict{}, nil
	}
	property := dataProperty(d.Spec)
	rng, err := onto.DataRange(ctx, property)
	if err != nil {
		return domain.Verdict{}, domain.Collaborator("range of "+property, err)
	}
	if !rng.Accepts(out) {
		expected := string(rng)
		if rng == domain.DatatypeAny {
			expected = "value"
		}
		return domain.Verdict{}, &domain.TypeMismatchError{Directive: d.ID(), Tuple: tuple, Expected: expected, Got: out}
	}
	return domain.Verdict{Holds: true, Value: out}, nil
}

func dataProperty(s domain.Spec) string {
	switch s := s.(type) {
	case domain.DataProperty:
		return s.Property
	case domain.ReifiedDataProperty:
		return s.Property
	}
	return ""
}

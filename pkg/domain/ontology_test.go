package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTuple(t *testing.T) {
	tup := Tuple{"a", "b"}
	assert.Equal(t, IndividualID("a"), tup.Self())
	assert.Equal(t, IndividualID(""), Tuple{}.Self())
	assert.Equal(t, "(a, b)", tup.String())

	assert.Equal(t, tup.Key(), Tuple{"a", "b"}.Key())
	assert.NotEqual(t, tup.Key(), Tuple{"b", "a"}.Key())
	assert.NotEqual(t, Tuple{"ab"}.Key(), Tuple{"a", "b"}.Key())
	assert.Len(t, tup.Key(), 64)
}

func TestDatatype_Accepts(t *testing.T) {
	tests := []struct {
		dt   Datatype
		v    any
		want bool
	}{
		{DatatypeAny, "x", true},
		{DatatypeAny, nil, false},
		{DatatypeString, "x", true},
		{DatatypeString, 1, false},
		{DatatypeInteger, int64(3), true},
		{DatatypeInteger, 3.5, false},
		{DatatypeFloat, 3.5, true},
		{DatatypeFloat, 3, true},
		{DatatypeFloat, "3.5", false},
		{DatatypeBoolean, false, true},
		{Datatype("dateTime"), "2026-01-01", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.dt.Accepts(tt.v), "%q accepts %#v", tt.dt, tt.v)
	}
}

func TestQuerySpec_Ref(t *testing.T) {
	assert.Equal(t, "q.mg", QuerySpec{File: "q.mg"}.Ref())
	long := QuerySpec{Text: "result(X) :- instance_of(X, \"Driver\"), data_value(X, \"speed\", _)."}
	assert.Len(t, long.Ref(), 43)
}

func TestErrors_Classification(t *testing.T) {
	cfg := Configf("Driver.fast", "bad %s", "thing")
	assert.ErrorIs(t, cfg, ErrConfiguration)
	assert.Equal(t, "configuration error in Driver.fast: bad thing", cfg.Error())

	tm := &TypeMismatchError{Directive: "Driver.fast", Tuple: Tuple{"d1"}, Expected: "bool", Got: 1}
	assert.ErrorIs(t, tm, ErrTypeMismatch)
	assert.Contains(t, tm.Error(), "expected bool, got int")

	root := errors.New("connection refused")
	err := fmt.Errorf("augment x: %w", Collaborator("list individuals", root))
	assert.ErrorIs(t, err, ErrCollaborator)
	assert.ErrorIs(t, err, root)

	var ce *CollaboratorError
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, "list individuals", ce.Op)

	assert.Nil(t, Collaborator("op", nil))
	assert.Same(t, cfg, Collaborator("op", cfg), "classified errors pass through")
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	a := LifecycleHooks{OnRunStart: func(context.Context, *RunEvent) { calls = append(calls, "a") }}
	b := LifecycleHooks{
		OnRunStart: func(context.Context, *RunEvent) { calls = append(calls, "b") },
		OnMutation: func(context.Context, *MutationEvent) { calls = append(calls, "m") },
	}

	h := a.Merge(b)
	h.OnRunStart(context.Background(), &RunEvent{})
	h.OnMutation(context.Background(), &MutationEvent{})
	assert.Equal(t, []string{"a", "b", "m"}, calls)
	assert.Nil(t, h.OnDirectiveEnd)
}

func TestReport(t *testing.T) {
	r := Report{Ontologies: []OntologyResult{
		{OntologyID: "a", Changes: 2, NewIndividuals: []IndividualID{"m1"}},
		{OntologyID: "b", Changes: 3, NewIndividuals: []IndividualID{"m2"}},
	}}
	assert.Equal(t, 5, r.Changes())
	assert.Equal(t, []IndividualID{"m1", "m2"}, r.NewIndividuals())

	res, ok := r.Result("b")
	assert.True(t, ok)
	assert.Equal(t, 3, res.Changes)
	_, ok = r.Result("c")
	assert.False(t, ok)
}

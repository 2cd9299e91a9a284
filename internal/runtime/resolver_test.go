package runtime_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/augur/internal/runtime"
	"github.com/aretw0/augur/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver(t *testing.T, q *fakeQuery) *runtime.Resolver {
	t.Helper()
	cache, err := runtime.NewSearchSpaceCache(0)
	require.NoError(t, err)
	if q == nil {
		return runtime.NewResolver(cache, nil)
	}
	return runtime.NewResolver(cache, q)
}

func TestResolve_CartesianOrder(t *testing.T) {
	ctx := context.Background()
	onto := scene(t, "onto")
	r := newResolver(t, nil)

	d := domain.Directive{
		Class: "Driver", Name: "drives",
		Spec:   domain.ObjectProperty{Property: "drives"},
		Func:   always(true),
		Params: []domain.ClassID{"Car"},
	}
	tuples, err := r.Resolve(ctx, onto, d)
	require.NoError(t, err)
	assert.Equal(t, []domain.Tuple{
		{"d1", "c1"}, {"d1", "c2"},
		{"d2", "c1"}, {"d2", "c2"},
		{"d3", "c1"}, {"d3", "c2"},
	}, tuples)
}

func TestResolve_ThingDefault(t *testing.T) {
	ctx := context.Background()
	onto := scene(t, "onto")
	r := newResolver(t, nil)

	d := domain.Directive{
		Class: "Car", Name: "near",
		Spec: domain.ObjectProperty{Property: "drives"},
		Func: always(true),
	}
	tuples, err := r.Resolve(ctx, onto, d)
	require.NoError(t, err)
	assert.Len(t, tuples, 2*6, "an unconstrained position ranges over every individual")
	assert.Equal(t, domain.Tuple{"c1", "d1"}, tuples[0])
}

func TestResolve_EmptyPool(t *testing.T) {
	onto := scene(t, "onto")
	r := newResolver(t, nil)

	d := domain.Directive{
		Class: "Driver", Name: "drives",
		Spec:   domain.ObjectProperty{Property: "drives"},
		Func:   always(true),
		Params: []domain.ClassID{"Bicycle"},
	}
	tuples, err := r.Resolve(context.Background(), onto, d)
	require.NoError(t, err)
	assert.Empty(t, tuples)
}

func TestResolve_Cached(t *testing.T) {
	ctx := context.Background()
	onto := &countingOntology{Ontology: scene(t, "onto")}
	r := newResolver(t, nil)

	d := domain.Directive{
		Class: "Driver", Name: "drives",
		Spec:   domain.ObjectProperty{Property: "drives"},
		Func:   always(true),
		Params: []domain.ClassID{"Car"},
	}
	first, err := r.Resolve(ctx, onto, d)
	require.NoError(t, err)
	second, err := r.Resolve(ctx, onto, d)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, onto.lists, "second resolution must not list individuals again")
	stats := r.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)

	r.Purge()
	_, err = r.Resolve(ctx, onto, d)
	require.NoError(t, err)
	assert.Equal(t, 4, onto.lists, "purge forces recomputation")
}

func TestResolve_Query(t *testing.T) {
	ctx := context.Background()
	onto := scene(t, "onto")
	q := &fakeQuery{rows: domain.Rows{
		Variables: []string{"Y", "X"},
		Bindings: []domain.Binding{
			{"X": "d1", "Y": "c2"},
			{"X": "d3", "Y": "c1"},
		},
	}}
	r := newResolver(t, q)

	d := domain.Directive{
		Class: "Driver", Name: "drives",
		Spec:  domain.ObjectProperty{Property: "drives"},
		Func:  always(true),
		Query: &domain.QuerySpec{Text: "result(X, Y) :- ...", Variables: []string{"X", "Y"}},
	}
	tuples, err := r.Resolve(ctx, onto, d)
	require.NoError(t, err)
	assert.Equal(t, []domain.Tuple{{"d1", "c2"}, {"d3", "c1"}}, tuples, "declared variable order wins")

	_, err = r.Resolve(ctx, onto, d)
	require.NoError(t, err)
	assert.Equal(t, 1, q.calls, "query results are cached")
}

func TestResolve_QueryEngineOrder(t *testing.T) {
	q := &fakeQuery{rows: domain.Rows{
		Variables: []string{"Y", "X"},
		Bindings:  []domain.Binding{{"X": "d1", "Y": "c2"}},
	}}
	r := newResolver(t, q)

	d := domain.Directive{
		Class: "Driver", Name: "drives",
		Spec:  domain.ObjectProperty{Property: "drives"},
		Func:  always(true),
		Query: &domain.QuerySpec{Text: "q"},
	}
	tuples, err := r.Resolve(context.Background(), scene(t, "onto"), d)
	require.NoError(t, err)
	assert.Equal(t, []domain.Tuple{{"c2", "d1"}}, tuples)
}

func TestResolve_QueryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drivers.mg")
	require.NoError(t, os.WriteFile(path, []byte("result(X) :- instance_of(X, \"Driver\")."), 0644))

	q := &fakeQuery{rows: domain.Rows{Variables: []string{"X"}, Bindings: []domain.Binding{{"X": "d2"}}}}
	r := newResolver(t, q)

	d := domain.Directive{
		Class: "Driver", Name: "isAdult",
		Spec:  domain.ClassSubsumption{Target: "Adult"},
		Func:  always(true),
		Query: &domain.QuerySpec{File: path},
	}
	tuples, err := r.Resolve(context.Background(), scene(t, "onto"), d)
	require.NoError(t, err)
	assert.Equal(t, []domain.Tuple{{"d2"}}, tuples)
	assert.Contains(t, q.last.Text, "instance_of")
}

func TestResolve_QueryErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("engine down")

	base := domain.Directive{
		Class: "Driver", Name: "drives",
		Spec: domain.ObjectProperty{Property: "drives"},
		Func: always(true),
	}

	tests := []struct {
		name   string
		query  *fakeQuery
		spec   domain.QuerySpec
		target error
	}{
		{
			name:   "no engine",
			spec:   domain.QuerySpec{Text: "q"},
			target: domain.ErrConfiguration,
		},
		{
			name:   "unreadable file",
			query:  &fakeQuery{},
			spec:   domain.QuerySpec{File: filepath.Join(t.TempDir(), "missing.mg")},
			target: domain.ErrConfiguration,
		},
		{
			name:   "variable count",
			query:  &fakeQuery{rows: domain.Rows{Variables: []string{"X"}, Bindings: []domain.Binding{{"X": "d1"}}}},
			spec:   domain.QuerySpec{Text: "q"},
			target: domain.ErrConfiguration,
		},
		{
			name:   "row arity",
			query:  &fakeQuery{rows: domain.Rows{Bindings: []domain.Binding{{"X": "d1"}}}},
			spec:   domain.QuerySpec{Text: "q", Variables: []string{"X", "Y"}},
			target: domain.ErrConfiguration,
		},
		{
			name:   "engine failure",
			query:  &fakeQuery{err: boom},
			spec:   domain.QuerySpec{Text: "q"},
			target: boom,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := base
			spec := tt.spec
			d.Query = &spec
			_, err := newResolver(t, tt.query).Resolve(ctx, scene(t, "onto"), d)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestResolve_EngineFailureIsCollaborator(t *testing.T) {
	q := &fakeQuery{err: errors.New("engine down")}
	d := domain.Directive{
		Class: "Driver", Name: "drives",
		Spec:  domain.ObjectProperty{Property: "drives"},
		Func:  always(true),
		Query: &domain.QuerySpec{Text: "q"},
	}
	_, err := newResolver(t, q).Resolve(context.Background(), scene(t, "onto"), d)

	var ce *domain.CollaboratorError
	require.ErrorAs(t, err, &ce)
	assert.ErrorIs(t, err, domain.ErrCollaborator)
}

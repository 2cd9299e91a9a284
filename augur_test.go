package augur_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/augur"
	"github.com/aretw0/augur/pkg/adapters/file"
	"github.com/aretw0/augur/pkg/adapters/memory"
	"github.com/aretw0/augur/pkg/domain"
	"github.com/aretw0/augur/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sceneYAML = `
id: crossing
classes:
  Person: []
  Driver: [Person]
object_properties: [approaches]
data_properties:
  speed: integer
individuals:
  - id: alice
    types: [Driver]
    data:
      speed: [62]
  - id: bob
    types: [Driver]
    data:
      speed: [28]
  - id: carol
    types: [Person]
  - id: zebra1
    types: [Crossing]
  - id: zebra2
    types: [Crossing]
`

func load(t *testing.T) *memory.Ontology {
	t.Helper()
	o, err := memory.Load(strings.NewReader(sceneYAML))
	require.NoError(t, err)
	return o
}

func fast(ctx context.Context, c domain.Call) (bool, error) {
	speeds, err := c.View.DataValues(ctx, c.Self, "speed")
	if err != nil || len(speeds) == 0 {
		return false, err
	}
	return speeds[0].(int) > 50, nil
}

func approaches(_ context.Context, c domain.Call) (bool, error) {
	return c.Arg(0) == "zebra1", nil
}

func TestEngine_AugmentTwice(t *testing.T) {
	ctx := context.Background()
	b := dsl.New()
	b.Class("Driver").Subsumption("isSpeeding", fast).Target("Speeder")

	eng, err := augur.New(b.MustBuild())
	require.NoError(t, err)

	onto := load(t)
	report, err := eng.Augment(ctx, onto)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Changes())

	snapshot, err := onto.Document(ctx)
	require.NoError(t, err)

	report, err = eng.Augment(ctx, onto)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Changes())

	after, err := onto.Document(ctx)
	require.NoError(t, err)
	assert.Equal(t, snapshot, after, "a second run has no observable effect")

	rec, err := eng.Status(ctx, "crossing")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Changes)
}

// A type hinted search space and a query describing the same set of tuples
// produce the same ABox.
func TestEngine_SearchSpaceEquivalence(t *testing.T) {
	ctx := context.Background()

	hinted := dsl.New()
	hinted.Class("Driver").ObjectProperty("approaches", "approaches", approaches).Params("Crossing")

	queried := dsl.New()
	queried.Class("Driver").ObjectProperty("approaches", "approaches", approaches).Query(`
result(D, C) :- instance_of(D, "Driver"), instance_of(C, "Crossing").
`, "D", "C")

	var docs []memory.Document
	for _, b := range []*dsl.Builder{hinted, queried} {
		eng, err := augur.New(b.MustBuild())
		require.NoError(t, err)

		onto := load(t)
		report, err := eng.Augment(ctx, onto)
		require.NoError(t, err)
		assert.Equal(t, 2, report.Changes())
		assert.Equal(t, 4, report.Ontologies[0].Directives[0].Candidates)

		doc, err := onto.Document(ctx)
		require.NoError(t, err)
		docs = append(docs, doc)
	}
	assert.Equal(t, docs[0], docs[1])
}

func TestEngine_DurableRunState(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	newEngine := func() *augur.Engine {
		b := dsl.New()
		b.Class("Driver").ReifiedObjectProperty("nearCrossing", "Encounter", []string{"driver", "crossing"}, approaches).
			Params("Crossing")
		eng, err := augur.New(b.MustBuild(),
			augur.WithRunStateStore(file.New(dir)),
			augur.WithTupleLedger(file.NewLedger(dir+"/ledger")),
		)
		require.NoError(t, err)
		return eng
	}

	onto := load(t)
	onto.DeclareObjectProperty("driver", "crossing")

	report, err := newEngine().Augment(ctx, onto)
	require.NoError(t, err)
	assert.Len(t, report.NewIndividuals(), 2)

	report, err = newEngine().Augment(ctx, onto)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAlreadyDone, report.Ontologies[0].Status, "run state survives the process")

	eng := newEngine()
	require.NoError(t, eng.Reset(ctx, "crossing"))
	ids, err := eng.Augmented(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestEngine_ConfigurationErrorSurfaces(t *testing.T) {
	b := dsl.New()
	b.Class("Driver").Subsumption("isSpeeding", fast).Query(`result(X, Y) :- instance_of(X, "Driver"), instance_of(Y, "Driver").`)

	eng, err := augur.New(b.MustBuild())
	require.NoError(t, err)

	_, err = eng.Augment(context.Background(), load(t))
	assert.ErrorIs(t, err, domain.ErrConfiguration, "a two column query cannot feed a unary function")
}

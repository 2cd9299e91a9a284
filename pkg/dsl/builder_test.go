package dsl

import (
	"context"
	"testing"

	"github.com/aretw0/augur/pkg/domain"
	"github.com/aretw0/augur/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yes(context.Context, domain.Call) (bool, error) { return true, nil }

func five(context.Context, domain.Call) (any, error) { return 5, nil }

func TestBuilder_DeclarationOrder(t *testing.T) {
	b := New()

	b.Class("Driver").
		Subsumption("isDriver", yes).Class().
		ObjectProperty("follows", "follows", yes).Params("Vehicle")

	b.Class("Pedestrian").
		Equivalence("isWalking", yes).Target("Walker")

	// Resuming a class appends to its declarations.
	b.Class("Driver").
		DataProperty("lanes", "hasLaneCount", five)

	reg := registry.New()
	require.NoError(t, b.Build(reg))

	assert.Equal(t, []domain.ClassID{"Driver", "Pedestrian"}, reg.Classes())

	drivers := reg.DirectivesFor("Driver")
	require.Len(t, drivers, 3)
	assert.Equal(t, domain.KindClassSubsumption, drivers[0].Kind())
	assert.Equal(t, domain.KindObjectProperty, drivers[1].Kind())
	assert.Equal(t, []domain.ClassID{"Vehicle"}, drivers[1].Params)
	assert.Equal(t, domain.KindDataProperty, drivers[2].Kind())

	walkers := reg.DirectivesFor("Pedestrian")
	require.Len(t, walkers, 1)
	assert.Equal(t, domain.ClassID("Walker"), walkers[0].Target())

	// A second Build has nothing pending.
	require.NoError(t, b.Build(reg))
	assert.Equal(t, 4, reg.Len())
}

func TestBuilder_ReifiedAndQuery(t *testing.T) {
	b := New()

	b.Class("Driver").
		ReifiedObjectProperty("meets", "Encounter", []string{"hasDriver", "hasPedestrian"}, yes).
		Params("Pedestrian").
		Query(`result(X, Y) :- instance_of(X, "Driver"), instance_of(Y, "Pedestrian").`, "X", "Y")

	b.Class("Driver").
		ReifiedDataProperty("distance", "Distance", "from", "to", "meters", five).
		QueryFile("distance.mg")

	reg := b.MustBuild()

	meets, ok := reg.Lookup("Driver", "meets")
	require.True(t, ok)
	assert.Equal(t, 2, meets.Arity())
	require.NotNil(t, meets.Query)
	assert.Equal(t, []string{"X", "Y"}, meets.Query.Variables)

	dist, ok := reg.Lookup("Driver", "distance")
	require.True(t, ok)
	assert.Equal(t, "distance.mg", dist.Query.File)
	assert.Equal(t, domain.KindReifiedDataProperty, dist.Kind())
}

func TestBuilder_RawDirective(t *testing.T) {
	b := New()
	spec := domain.ReifiedDataProperty{Class: "Gap", From: "from", To: "to", Property: "meters"}
	db := b.Class("Driver").
		Directive("gap", spec, five).
		Params("Car").
		Query(`result(X, Y) :- instance_of(X, "Driver"), instance_of(Y, "Car").`, "X", "Y")

	snap := db.Build()
	assert.Equal(t, "Driver.gap", snap.ID())
	assert.Equal(t, domain.KindReifiedDataProperty, snap.Kind())
	assert.Equal(t, spec, snap.Spec)
	assert.Equal(t, []domain.ClassID{"Car"}, snap.Params)

	// The snapshot is a copy; editing it leaves the pending directive alone.
	snap.Params[0] = "Truck"
	snap.Query.Variables[0] = "Z"

	reg := b.MustBuild()
	gap, ok := reg.Lookup("Driver", "gap")
	require.True(t, ok)
	assert.Equal(t, []domain.ClassID{"Car"}, gap.Params)
	assert.Equal(t, []string{"X", "Y"}, gap.Query.Variables)
	assert.Equal(t, 2, gap.Arity())
}

func TestBuilder_InvalidDeclaration(t *testing.T) {
	b := New()
	b.Class("Driver").ObjectProperty("follows", "", yes)

	err := b.Build(registry.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	assert.Panics(t, func() {
		bad := New()
		bad.Class("Driver").Subsumption("nil", nil)
		bad.MustBuild()
	})
}

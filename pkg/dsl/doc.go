/*
Package dsl provides a fluent Go DSL for declaring augmentation directives on ontology classes.

It replaces annotation-style markers with explicit, structured registration calls
executed once, typically from an init function or a package-level variable.

Example usage:

	package traffic

	import (
		"context"

		"github.com/aretw0/augur/pkg/domain"
		"github.com/aretw0/augur/pkg/dsl"
	)

	func Declare() *dsl.Builder {
		b := dsl.New()

		b.Class("FastVehicle").
			Equivalence("isFast", func(ctx context.Context, c domain.Call) (bool, error) {
				return speed(ctx, c) > 13.9, nil
			})

		b.Class("Driver").
			ObjectProperty("follows", "follows", followsFn).
			Params("Vehicle")

		return b
	}

	// ... b.Build(reg) registers everything into a registry.Registry.
*/
package dsl

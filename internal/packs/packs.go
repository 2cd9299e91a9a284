// Package packs indexes the directive packs built into the augur command.
package packs

import (
	"maps"
	"slices"

	"github.com/aretw0/augur/internal/packs/traffic"
	"github.com/aretw0/augur/pkg/dsl"
)

var builtin = map[string]func() *dsl.Builder{
	"traffic": traffic.Declare,
}

// Lookup returns the declarations of a named pack.
func Lookup(name string) (*dsl.Builder, bool) {
	fn, ok := builtin[name]
	if !ok {
		return nil, false
	}
	return fn(), true
}

// Names lists the built-in packs.
func Names() []string {
	return slices.Sorted(maps.Keys(builtin))
}

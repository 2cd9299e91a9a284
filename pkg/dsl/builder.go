package dsl

import (
	"fmt"

	"github.com/aretw0/augur/pkg/domain"
	"github.com/aretw0/augur/pkg/registry"
)

// Builder collects directive declarations and registers them in one go.
type Builder struct {
	classes []*ClassBuilder
	index   map[domain.ClassID]*ClassBuilder
}

// New creates a new declaration builder.
func New() *Builder {
	return &Builder{
		index: make(map[domain.ClassID]*ClassBuilder),
	}
}

// Class starts (or resumes) the declarations of an augmented class.
// If the class already exists, it returns the existing builder.
func (b *Builder) Class(id domain.ClassID) *ClassBuilder {
	if cb, ok := b.index[id]; ok {
		return cb
	}
	cb := &ClassBuilder{id: id, builder: b}
	b.classes = append(b.classes, cb)
	b.index[id] = cb
	return cb
}

// Build registers every pending declaration into reg, in declaration order.
// It stops at the first malformed directive.
func (b *Builder) Build(reg *registry.Registry) error {
	for _, cb := range b.classes {
		if err := reg.Augment(cb.id); err != nil {
			return fmt.Errorf("failed to mark class %q: %w", cb.id, err)
		}
		for _, db := range cb.pending {
			if err := reg.Register(db.d); err != nil {
				return err
			}
		}
		cb.pending = nil
	}
	return nil
}

// MustBuild is like Build into a fresh registry but panics on error.
// It is meant for package-level declaration packs.
func (b *Builder) MustBuild() *registry.Registry {
	reg := registry.New()
	if err := b.Build(reg); err != nil {
		panic(err)
	}
	return reg
}

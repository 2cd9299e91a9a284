package dsl

import (
	"context"

	"github.com/aretw0/augur/pkg/domain"
)

// PredicateFunc is a boolean directive function.
type PredicateFunc func(ctx context.Context, call domain.Call) (bool, error)

// ClassBuilder declares directives on one augmented class.
type ClassBuilder struct {
	id      domain.ClassID
	builder *Builder
	pending []*DirectiveBuilder
}

func (c *ClassBuilder) add(name string, spec domain.Spec, fn domain.Func) *DirectiveBuilder {
	db := &DirectiveBuilder{
		d: domain.Directive{
			Class: c.id,
			Name:  name,
			Spec:  spec,
			Func:  fn,
		},
		class: c,
	}
	c.pending = append(c.pending, db)
	return db
}

// Subsumption asserts the class on every instance the predicate holds for.
func (c *ClassBuilder) Subsumption(name string, fn PredicateFunc) *DirectiveBuilder {
	return c.add(name, domain.ClassSubsumption{}, domain.Predicate(fn))
}

// Equivalence asserts the class while the predicate holds and retracts it otherwise.
func (c *ClassBuilder) Equivalence(name string, fn PredicateFunc) *DirectiveBuilder {
	return c.add(name, domain.ClassEquivalence{}, domain.Predicate(fn))
}

// ObjectProperty asserts property from the self instance to the second argument.
func (c *ClassBuilder) ObjectProperty(name, property string, fn PredicateFunc) *DirectiveBuilder {
	return c.add(name, domain.ObjectProperty{Property: property}, domain.Predicate(fn))
}

// DataProperty fills property once with the returned value.
func (c *ClassBuilder) DataProperty(name, property string, fn domain.Func) *DirectiveBuilder {
	return c.add(name, domain.DataProperty{Property: property}, fn)
}

// ReifiedObjectProperty creates a class individual per holding tuple, linking
// properties to the tuple in order. The arity is len(properties).
func (c *ClassBuilder) ReifiedObjectProperty(name string, class domain.ClassID, properties []string, fn PredicateFunc) *DirectiveBuilder {
	return c.add(name, domain.ReifiedObjectProperty{Class: class, Properties: properties}, domain.Predicate(fn))
}

// ReifiedDataProperty creates a class individual per valued pair.
func (c *ClassBuilder) ReifiedDataProperty(name string, class domain.ClassID, from, to, property string, fn domain.Func) *DirectiveBuilder {
	return c.add(name, domain.ReifiedDataProperty{Class: class, From: from, To: to, Property: property}, fn)
}

// Directive declares a directive with a raw spec and a context-aware function.
func (c *ClassBuilder) Directive(name string, spec domain.Spec, fn domain.Func) *DirectiveBuilder {
	return c.add(name, spec, fn)
}

// Class switches to another class, for chained declarations.
func (c *ClassBuilder) Class(id domain.ClassID) *ClassBuilder {
	return c.builder.Class(id)
}

// DirectiveBuilder configures one pending directive.
type DirectiveBuilder struct {
	d     domain.Directive
	class *ClassBuilder
}

// Params sets the type constraints of the extra arguments, in order.
func (b *DirectiveBuilder) Params(types ...domain.ClassID) *DirectiveBuilder {
	b.d.Params = types
	return b
}

// Target asserts another class than the owning one (class kinds only).
func (b *DirectiveBuilder) Target(class domain.ClassID) *DirectiveBuilder {
	switch b.d.Spec.(type) {
	case domain.ClassSubsumption:
		b.d.Spec = domain.ClassSubsumption{Target: class}
	case domain.ClassEquivalence:
		b.d.Spec = domain.ClassEquivalence{Target: class}
	}
	return b
}

// Query replaces type based enumeration with an inline query.
func (b *DirectiveBuilder) Query(text string, variables ...string) *DirectiveBuilder {
	b.d.Query = &domain.QuerySpec{Text: text, Variables: variables}
	return b
}

// QueryFile replaces type based enumeration with a query read from path.
func (b *DirectiveBuilder) QueryFile(path string, variables ...string) *DirectiveBuilder {
	b.d.Query = &domain.QuerySpec{File: path, Variables: variables}
	return b
}

// Class returns to the owning class builder.
func (b *DirectiveBuilder) Class() *ClassBuilder {
	return b.class
}

// Build returns the underlying directive.
// This is primarily used by the Builder, but exposed for advanced usage.
func (b *DirectiveBuilder) Build() domain.Directive {
	return b.d.Clone()
}

/*
Package augur augments the ABox of an ontology with facts computed by user
functions.

Functions are attached to ontology classes as directives. Each directive has a
kind that decides what a holding result turns into:

  - class subsumption: assert a class on the instance
  - class equivalence: assert the class while the function holds, retract it otherwise
  - object property: link the instance to another individual
  - data property: fill a data property once
  - reified object property: create an individual linking a tuple of individuals
  - reified data property: create an individual carrying a value for a pair

The engine enumerates the candidate tuples of every directive (by the declared
parameter classes, or by a Datalog query), evaluates the function per tuple
and applies the result to the ontology immediately. An ontology is augmented
at most once; Reset makes it eligible again.

# Usage

Declare directives with the dsl builder and run them over an ontology:

	b := dsl.New()
	b.Class("Driver").
		Subsumption("isAdult", func(ctx context.Context, c domain.Call) (bool, error) {
			ages, err := c.View.DataValues(ctx, c.Self, "age")
			return len(ages) > 0 && ages[0].(int) >= 18, err
		}).
		Target("Adult")

	eng, err := augur.New(b.MustBuild())
	if err != nil {
		log.Fatal(err)
	}
	report, err := eng.Augment(ctx, onto)

The ontology is any ports.Ontology. The memory adapter loads one from YAML.
Run state and reified tuples are kept in memory unless a file or Redis store
is configured.
*/
package augur

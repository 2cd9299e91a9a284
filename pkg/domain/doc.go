/*
Package domain contains the core domain model of the augmentation engine.

It defines the identities the engine exchanges with an ontology (individuals,
classes, tuples), the augmentation directives users attach to classes, the
verdicts produced by evaluating them and the reports returned by a run. This
package is kept pure and free of I/O; the ontology and query collaborators are
described in package ports.

# Key Entities

  - Directive: a user function attached to an augmented class together with its Spec.
  - Spec: one of six augmentation kinds (subsumption, equivalence, object property,
    data property, reified object property, reified data property).
  - Tuple: a candidate argument list; slot 0 is always the self instance.
  - Report: the outcome of one augmentation call, per ontology and per directive.
*/
package domain

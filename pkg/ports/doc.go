/*
Package ports defines the driven ports (interfaces) of the augmentation engine.

These interfaces decouple the engine from the ontology store, the query engine
and the persistence of run state, so the same engine works against an in-memory
model, a remote store or a test double.

# Key Interfaces

  - Ontology: read and write access to the ABox of one ontology.
  - QueryEngine: executes a query against an ontology and returns binding rows.
  - RunStateStore: remembers which ontologies have already been augmented.
  - TupleLedger: remembers which candidate tuples a reifying directive already materialized.
  - DistributedLocker: serializes augmentation of one ontology across processes.
*/
package ports

package ports

import (
	"context"

	"github.com/aretw0/augur/pkg/domain"
)

// RunStateStore persists which ontologies have completed augmentation.
type RunStateStore interface {
	// Save marks the ontology of rec as augmented.
	Save(ctx context.Context, rec domain.RunRecord) error

	// Load retrieves the run record of an ontology.
	// Returns domain.ErrRunStateNotFound if the ontology was never augmented.
	Load(ctx context.Context, ontologyID string) (*domain.RunRecord, error)

	// Delete forgets the run record of an ontology.
	Delete(ctx context.Context, ontologyID string) error

	// List returns the IDs of every augmented ontology.
	List(ctx context.Context) ([]string, error)
}

// TupleLedger records the tuples a reifying directive has already materialized,
// so that a tuple is reified at most once per ontology.
type TupleLedger interface {
	// Contains reports whether key was recorded for the directive.
	Contains(ctx context.Context, ontologyID, directive, key string) (bool, error)

	// Add records key for the directive.
	Add(ctx context.Context, ontologyID, directive, key string) error

	// Clear forgets every key of an ontology. An empty ontologyID clears all.
	Clear(ctx context.Context, ontologyID string) error
}

package ports

import (
	"context"

	"github.com/aretw0/augur/pkg/domain"
)

// Ontology is the ABox collaborator the engine reads and mutates.
// Mutations must be immediately visible to subsequent reads.
type Ontology interface {
	domain.View

	// ID returns the ontology identity used to key run state.
	ID() string

	// Individuals returns the instances of a class in a deterministic order.
	// domain.Thing yields every individual.
	Individuals(ctx context.Context, class domain.ClassID) ([]domain.IndividualID, error)

	// AddClass asserts a class on an individual.
	AddClass(ctx context.Context, id domain.IndividualID, class domain.ClassID) error

	// RemoveClass retracts an asserted class from an individual.
	RemoveClass(ctx context.Context, id domain.IndividualID, class domain.ClassID) error

	// AddObjectValue asserts property(id, target).
	AddObjectValue(ctx context.Context, id domain.IndividualID, property string, target domain.IndividualID) error

	// SetDataValue replaces the values of a data property with value.
	SetDataValue(ctx context.Context, id domain.IndividualID, property string, value any) error

	// DataRange returns the declared range of a data property.
	DataRange(ctx context.Context, property string) (domain.Datatype, error)

	// NewIndividual creates a fresh individual asserted to class.
	NewIndividual(ctx context.Context, class domain.ClassID) (domain.IndividualID, error)

	// Describe returns everything asserted about an individual.
	Describe(ctx context.Context, id domain.IndividualID) (domain.Description, error)
}

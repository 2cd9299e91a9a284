package ports

import (
	"context"

	"github.com/aretw0/augur/pkg/domain"
)

// QueryEngine executes query text against an ontology.
// The engine receives the query with Text already resolved from File.
type QueryEngine interface {
	Query(ctx context.Context, onto Ontology, query domain.QuerySpec) (domain.Rows, error)
}

package runtime

import (
	"context"
	"errors"
	"os"

	"github.com/aretw0/augur/pkg/domain"
	"github.com/aretw0/augur/pkg/ports"
)

// Resolver computes the candidate tuples of a directive.
type Resolver struct {
	cache    *SearchSpaceCache
	query    ports.QueryEngine
	readFile func(name string) ([]byte, error)
}

// NewResolver creates a resolver. query may be nil when no directive declares a query.
func NewResolver(cache *SearchSpaceCache, query ports.QueryEngine) *Resolver {
	return &Resolver{
		cache:    cache,
		query:    query,
		readFile: os.ReadFile,
	}
}

// Stats returns the cache counters.
func (r *Resolver) Stats() CacheStats {
	return r.cache.Stats()
}

// Purge empties the cache.
func (r *Resolver) Purge() {
	r.cache.Purge()
}

// Resolve returns the search space of d on onto. The result is cached: later
// calls within the same pass return the same slice without consulting the
// ontology or the query engine again. Callers must not modify it.
func (r *Resolver) Resolve(ctx context.Context, onto ports.Ontology, d domain.Directive) ([]domain.Tuple, error) {
	if tuples, ok := r.cache.Get(onto.ID(), d.ID()); ok {
		return tuples, nil
	}

	var (
		tuples []domain.Tuple
		err    error
	)
	if d.Query != nil {
		tuples, err = r.fromQuery(ctx, onto, d)
	} else {
		tuples, err = r.fromTypes(ctx, onto, d)
	}
	if err != nil {
		return nil, err
	}

	r.cache.Add(onto.ID(), d.ID(), tuples)
	return tuples, nil
}

// fromTypes enumerates the Cartesian product of the position types in
// collaborator order, the last position varying fastest.
func (r *Resolver) fromTypes(ctx context.Context, onto ports.Ontology, d domain.Directive) ([]domain.Tuple, error) {
	types := d.PositionTypes()
	pools := make([][]domain.IndividualID, len(types))
	total := 1
	for i, class := range types {
		ids, err := onto.Individuals(ctx, class)
		if err != nil {
			return nil, domain.Collaborator("list individuals of "+string(class), err)
		}
		if len(ids) == 0 {
			return []domain.Tuple{}, nil
		}
		pools[i] = ids
		total *= len(ids)
	}

	tuples := make([]domain.Tuple, 0, total)
	idx := make([]int, len(pools))
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t := make(domain.Tuple, len(pools))
		for i, pool := range pools {
			t[i] = pool[idx[i]]
		}
		tuples = append(tuples, t)

		pos := len(idx) - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < len(pools[pos]) {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			return tuples, nil
		}
	}
}

func (r *Resolver) fromQuery(ctx context.Context, onto ports.Ontology, d domain.Directive) ([]domain.Tuple, error) {
	q := *d.Query
	if q.File != "" {
		data, err := r.readFile(q.File)
		if err != nil {
			return nil, &domain.ConfigurationError{Directive: d.ID(), Reason: "query file is unreadable", Err: err}
		}
		q.Text = string(data)
	}
	if r.query == nil {
		return nil, domain.Configf(d.ID(), "directive declares a query but no query engine is configured")
	}

	rows, err := r.query.Query(ctx, onto, q)
	if err != nil {
		var cfg *domain.ConfigurationError
		if errors.As(err, &cfg) && cfg.Directive == "" {
			cfg.Directive = d.ID()
		}
		return nil, domain.Collaborator("query "+q.Ref(), err)
	}

	vars := q.Variables
	if len(vars) == 0 {
		vars = rows.Variables
	}
	if len(vars) != d.Arity() {
		return nil, domain.Configf(d.ID(), "query yields %d variable(s), function takes %d", len(vars), d.Arity())
	}

	tuples := make([]domain.Tuple, 0, len(rows.Bindings))
	for n, row := range rows.Bindings {
		if len(row) != len(vars) {
			return nil, domain.Configf(d.ID(), "query row %d has %d value(s), function takes %d", n, len(row), d.Arity())
		}
		t := make(domain.Tuple, len(vars))
		for i, v := range vars {
			id, ok := row[v]
			if !ok {
				return nil, domain.Configf(d.ID(), "query row %d does not bind %s", n, v)
			}
			t[i] = id
		}
		tuples = append(tuples, t)
	}
	return tuples, nil
}

// Package mangle answers directive search-space queries with Google Mangle,
// a Datalog dialect. The ontology ABox is exposed as three extensional
// predicates:
//
//	instance_of(Individual, Class)
//	object_value(Subject, Property, Object)
//	data_value(Subject, Property, Value)
//
// Individuals, classes and properties are strings. A query defines the
// result predicate (by default "result"); each derived result fact is one row,
// and the head variables of the result rule name the row columns.
//
// instance_of carries asserted classes only. Queries that need the class
// hierarchy must spell it out as rules.
package mangle

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/augur/pkg/domain"
	"github.com/aretw0/augur/pkg/ports"
	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	_ "github.com/google/mangle/builtin"
	"github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/parse"
)

// Prelude declares the predicates every query can read.
const Prelude = `
Decl instance_of(Individual, Class).
Decl object_value(Subject, Property, Object).
Decl data_value(Subject, Property, Value).
`

const (
	predInstanceOf  = "instance_of"
	predObjectValue = "object_value"
	predDataValue   = "data_value"
)

// DefaultResult is the predicate whose facts become rows.
const DefaultResult = "result"

// Engine implements ports.QueryEngine.
type Engine struct {
	result string
}

// Option configures an Engine.
type Option func(*Engine)

// WithResultPredicate changes the predicate read back as rows.
func WithResultPredicate(name string) Option {
	return func(e *Engine) {
		e.result = name
	}
}

// New creates a query engine.
func New(opts ...Option) *Engine {
	e := &Engine{result: DefaultResult}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ ports.QueryEngine = (*Engine)(nil)

// Query evaluates q over a fact snapshot of onto.
// Syntax and analysis problems are configuration errors; the result
// predicate must be defined by the query and bind individuals only.
func (e *Engine) Query(ctx context.Context, onto ports.Ontology, q domain.QuerySpec) (domain.Rows, error) {
	unit, err := parse.Unit(strings.NewReader(Prelude + q.Text))
	if err != nil {
		return domain.Rows{}, &domain.ConfigurationError{Reason: "query " + q.Ref() + " does not parse", Err: err}
	}
	program, err := analysis.AnalyzeOneUnit(unit, nil)
	if err != nil {
		return domain.Rows{}, &domain.ConfigurationError{Reason: "query " + q.Ref() + " is invalid", Err: err}
	}

	head, ok := e.resultHead(program)
	if !ok {
		return domain.Rows{}, domain.Configf("", "query %s does not define %s", q.Ref(), e.result)
	}
	vars := make([]string, len(head.Args))
	for i, arg := range head.Args {
		v, ok := arg.(ast.Variable)
		if !ok {
			return domain.Rows{}, domain.Configf("", "query %s: %s argument %d is not a variable", q.Ref(), e.result, i)
		}
		vars[i] = v.Symbol
	}

	store := factstore.NewSimpleInMemoryStore()
	if err := loadFacts(ctx, onto, store); err != nil {
		return domain.Rows{}, err
	}
	if _, err := engine.EvalProgramWithStats(program, store); err != nil {
		return domain.Rows{}, fmt.Errorf("mangle evaluation failed: %w", err)
	}

	rows := domain.Rows{Variables: vars}
	var convErr error
	err = store.GetFacts(ast.NewQuery(head.Predicate), func(atom ast.Atom) error {
		b := make(domain.Binding, len(vars))
		for i, arg := range atom.Args {
			c, ok := arg.(ast.Constant)
			if !ok || c.Type != ast.StringType {
				convErr = domain.Configf("", "query %s binds %s to %v, not an individual", q.Ref(), vars[i], arg)
				return convErr
			}
			b[vars[i]] = domain.IndividualID(c.Symbol)
		}
		rows.Bindings = append(rows.Bindings, b)
		return nil
	})
	if convErr != nil {
		return domain.Rows{}, convErr
	}
	if err != nil {
		return domain.Rows{}, fmt.Errorf("failed to read %s facts: %w", e.result, err)
	}
	sortBindings(rows)
	return rows, nil
}

// sortBindings orders rows by their values, column by column. The fact store
// hands facts back in no particular order.
func sortBindings(rows domain.Rows) {
	slices.SortFunc(rows.Bindings, func(a, b domain.Binding) int {
		for _, v := range rows.Variables {
			if c := strings.Compare(string(a[v]), string(b[v])); c != 0 {
				return c
			}
		}
		return 0
	})
}

func (e *Engine) resultHead(program *analysis.ProgramInfo) (ast.Atom, bool) {
	for _, clause := range program.Rules {
		if clause.Head.Predicate.Symbol == e.result {
			return clause.Head, true
		}
	}
	return ast.Atom{}, false
}

type factAdder interface {
	Add(atom ast.Atom) bool
}

func loadFacts(ctx context.Context, onto ports.Ontology, store factAdder) error {
	ids, err := onto.Individuals(ctx, domain.Thing)
	if err != nil {
		return fmt.Errorf("failed to list individuals: %w", err)
	}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		desc, err := onto.Describe(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to describe %s: %w", id, err)
		}
		self := ast.String(string(id))
		for _, c := range desc.Classes {
			store.Add(ast.NewAtom(predInstanceOf, self, ast.String(string(c))))
		}
		for p, targets := range desc.Objects {
			for _, t := range targets {
				store.Add(ast.NewAtom(predObjectValue, self, ast.String(p), ast.String(string(t))))
			}
		}
		for p, vals := range desc.Data {
			for _, v := range vals {
				store.Add(ast.NewAtom(predDataValue, self, ast.String(p), term(v)))
			}
		}
	}
	return nil
}

func term(v any) ast.BaseTerm {
	switch val := v.(type) {
	case string:
		return ast.String(val)
	case int:
		return ast.Number(int64(val))
	case int32:
		return ast.Number(int64(val))
	case int64:
		return ast.Number(val)
	case float32:
		return ast.Float64(float64(val))
	case float64:
		return ast.Float64(val)
	case bool:
		if val {
			return ast.TrueConstant
		}
		return ast.FalseConstant
	default:
		return ast.String(fmt.Sprint(val))
	}
}

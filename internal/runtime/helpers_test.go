package runtime_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/augur/internal/runtime"
	"github.com/aretw0/augur/pkg/adapters/memory"
	"github.com/aretw0/augur/pkg/domain"
	"github.com/aretw0/augur/pkg/ports"
	"github.com/aretw0/augur/pkg/registry"
	"github.com/stretchr/testify/require"
)

// scene builds a small traffic ABox:
// three drivers, two cars, one pedestrian.
func scene(t *testing.T, id string) *memory.Ontology {
	t.Helper()
	n := 0
	o := memory.NewOntology(id, memory.WithIDGenerator(func(class domain.ClassID) domain.IndividualID {
		n++
		return domain.IndividualID(fmt.Sprintf("%s-%d", class, n))
	}))
	o.DeclareClass("Person")
	o.DeclareClass("Driver", "Person")
	o.DeclareObjectProperty("drives", "who", "what")
	o.DeclareDataProperty("age", domain.DatatypeInteger)
	o.DeclareDataProperty("distance", domain.DatatypeFloat)
	for _, d := range []domain.IndividualID{"d1", "d2", "d3"} {
		require.NoError(t, o.AddIndividual(d, "Driver"))
	}
	for _, c := range []domain.IndividualID{"c1", "c2"} {
		require.NoError(t, o.AddIndividual(c, "Car"))
	}
	require.NoError(t, o.AddIndividual("p1", "Person"))
	return o
}

func newDriver(t *testing.T, reg *registry.Registry, opts ...runtime.Option) (*runtime.Driver, *memory.Store, *memory.Ledger) {
	t.Helper()
	store := memory.NewStore()
	ledger := memory.NewLedger()
	opts = append([]runtime.Option{runtime.WithClock(func() time.Time {
		return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	})}, opts...)
	d, err := runtime.NewDriver(reg, store, ledger, opts...)
	require.NoError(t, err)
	return d, store, ledger
}

func register(t *testing.T, reg *registry.Registry, d domain.Directive) {
	t.Helper()
	require.NoError(t, reg.Register(d))
}

func always(v bool) domain.Func {
	return domain.Predicate(func(context.Context, domain.Call) (bool, error) { return v, nil })
}

// counter counts function invocations per self instance.
type counter struct {
	mu    sync.Mutex
	calls map[domain.IndividualID]int
}

func newCounter() *counter {
	return &counter{calls: make(map[domain.IndividualID]int)}
}

func (c *counter) wrap(fn domain.Func) domain.Func {
	return func(ctx context.Context, call domain.Call) (any, error) {
		c.mu.Lock()
		c.calls[call.Self]++
		c.mu.Unlock()
		return fn(ctx, call)
	}
}

func (c *counter) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.calls {
		n += v
	}
	return n
}

// countingOntology counts Individuals calls.
type countingOntology struct {
	ports.Ontology
	mu    sync.Mutex
	lists int
}

func (c *countingOntology) Individuals(ctx context.Context, class domain.ClassID) ([]domain.IndividualID, error) {
	c.mu.Lock()
	c.lists++
	c.mu.Unlock()
	return c.Ontology.Individuals(ctx, class)
}

// fakeQuery returns fixed rows and records what it was asked.
type fakeQuery struct {
	rows  domain.Rows
	err   error
	calls int
	last  domain.QuerySpec
}

func (f *fakeQuery) Query(ctx context.Context, onto ports.Ontology, q domain.QuerySpec) (domain.Rows, error) {
	f.calls++
	f.last = q
	return f.rows, f.err
}

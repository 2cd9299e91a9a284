package augur

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/augur/internal/logging"
	"github.com/aretw0/augur/internal/runtime"
	"github.com/aretw0/augur/pkg/adapters/mangle"
	"github.com/aretw0/augur/pkg/adapters/memory"
	"github.com/aretw0/augur/pkg/domain"
	"github.com/aretw0/augur/pkg/ports"
	"github.com/aretw0/augur/pkg/registry"
)

// Engine is the high-level entry point for the augur library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	driver *runtime.Driver

	state     ports.RunStateStore
	ledger    ports.TupleLedger
	query     ports.QueryEngine
	locker    ports.DistributedLocker
	lockTTL   time.Duration
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	cacheSize int
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRunStateStore sets where completed ontologies are recorded (default: memory).
func WithRunStateStore(s ports.RunStateStore) Option {
	return func(e *Engine) {
		e.state = s
	}
}

// WithTupleLedger sets where reified tuples are recorded (default: memory).
func WithTupleLedger(l ports.TupleLedger) Option {
	return func(e *Engine) {
		e.ledger = l
	}
}

// WithQueryEngine replaces the default Mangle query engine.
func WithQueryEngine(q ports.QueryEngine) Option {
	return func(e *Engine) {
		e.query = q
	}
}

// WithLocker serializes passes on one ontology across processes.
func WithLocker(l ports.DistributedLocker, ttl time.Duration) Option {
	return func(e *Engine) {
		e.locker = l
		e.lockTTL = ttl
	}
}

// WithLifecycleHooks registers observability hooks. Repeated use merges them.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithCacheSize bounds the search space cache.
func WithCacheSize(n int) Option {
	return func(e *Engine) {
		e.cacheSize = n
	}
}

// New creates an engine running the directives of reg.
func New(reg *registry.Registry, opts ...Option) (*Engine, error) {
	e := &Engine{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.state == nil {
		e.state = memory.NewStore()
	}
	if e.ledger == nil {
		e.ledger = memory.NewLedger()
	}
	if e.query == nil {
		e.query = mangle.New()
	}

	ropts := []runtime.Option{
		runtime.WithLogger(e.logger),
		runtime.WithQueryEngine(e.query),
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithCacheSize(e.cacheSize),
	}
	if e.locker != nil {
		ropts = append(ropts, runtime.WithLocker(e.locker, e.lockTTL))
	}

	d, err := runtime.NewDriver(reg, e.state, e.ledger, ropts...)
	if err != nil {
		return nil, err
	}
	e.driver = d
	return e, nil
}

// Augment runs every registered directive over the ontologies, in order.
// Ontologies already augmented are skipped. The first error aborts the call.
func (e *Engine) Augment(ctx context.Context, ontologies ...ports.Ontology) (*domain.Report, error) {
	return e.driver.Augment(ctx, ontologies...)
}

// Reset forgets run state and reified tuples. With no IDs everything is reset.
func (e *Engine) Reset(ctx context.Context, ontologyIDs ...string) error {
	return e.driver.Reset(ctx, ontologyIDs...)
}

// Status returns the run record of an ontology, or domain.ErrRunStateNotFound.
func (e *Engine) Status(ctx context.Context, ontologyID string) (*domain.RunRecord, error) {
	return e.driver.Status(ctx, ontologyID)
}

// Augmented lists the ontologies already augmented.
func (e *Engine) Augmented(ctx context.Context) ([]string, error) {
	return e.driver.Augmented(ctx)
}

// CacheStats reports search space cache usage.
type CacheStats = runtime.CacheStats

// Stats returns search space cache usage since the engine was created.
func (e *Engine) Stats() CacheStats {
	return e.driver.Stats()
}

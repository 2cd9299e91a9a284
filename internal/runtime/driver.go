package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/augur/internal/logging"
	"github.com/aretw0/augur/pkg/domain"
	"github.com/aretw0/augur/pkg/ports"
	"github.com/aretw0/augur/pkg/registry"
)

// DefaultLockTTL bounds how long a distributed lock outlives a crashed holder.
const DefaultLockTTL = 5 * time.Minute

// Driver runs every registered directive over ontologies, once per ontology.
type Driver struct {
	registry *registry.Registry
	state    ports.RunStateStore
	ledger   ports.TupleLedger
	query    ports.QueryEngine
	locker   ports.DistributedLocker
	lockTTL  time.Duration
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	now      func() time.Time
	size     int

	resolver *Resolver
	mat      *Materializer

	mu sync.Mutex
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithQueryEngine sets the engine used by directives that declare a query.
func WithQueryEngine(q ports.QueryEngine) Option {
	return func(d *Driver) {
		d.query = q
	}
}

// WithLocker serializes passes on the same ontology across processes.
// A ttl <= 0 selects DefaultLockTTL.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(d *Driver) {
		d.locker = locker
		if ttl > 0 {
			d.lockTTL = ttl
		}
	}
}

// WithLifecycleHooks registers observability callbacks. Repeated use merges them.
func WithLifecycleHooks(h domain.LifecycleHooks) Option {
	return func(d *Driver) {
		d.hooks = d.hooks.Merge(h)
	}
}

// WithCacheSize bounds the search space cache.
func WithCacheSize(size int) Option {
	return func(d *Driver) {
		d.size = size
	}
}

// WithClock overrides the time source of run records and events.
func WithClock(now func() time.Time) Option {
	return func(d *Driver) {
		if now != nil {
			d.now = now
		}
	}
}

// NewDriver creates a driver over reg persisting completion in state and
// reified tuples in ledger.
func NewDriver(reg *registry.Registry, state ports.RunStateStore, ledger ports.TupleLedger, opts ...Option) (*Driver, error) {
	if reg == nil {
		return nil, errors.New("registry is required")
	}
	if state == nil || ledger == nil {
		return nil, errors.New("run state store and tuple ledger are required")
	}

	d := &Driver{
		registry: reg,
		state:    state,
		ledger:   ledger,
		lockTTL:  DefaultLockTTL,
		logger:   logging.NewNop(),
		now:      time.Now,
		size:     DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(d)
	}

	cache, err := NewSearchSpaceCache(d.size)
	if err != nil {
		return nil, fmt.Errorf("failed to create search space cache: %w", err)
	}
	d.resolver = NewResolver(cache, d.query)
	d.mat = NewMaterializer(ledger)
	return d, nil
}

// Stats returns the search space cache counters.
func (d *Driver) Stats() CacheStats {
	return d.resolver.Stats()
}

// Augment augments the ontologies in argument order.
// It stops at the first error; the report then ends with the failed ontology.
func (d *Driver) Augment(ctx context.Context, ontologies ...ports.Ontology) (*domain.Report, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	report := &domain.Report{Ontologies: make([]domain.OntologyResult, 0, len(ontologies))}
	for _, onto := range ontologies {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res, err := d.augmentOne(ctx, onto)
		report.Ontologies = append(report.Ontologies, res)
		if err != nil {
			return report, fmt.Errorf("augment %s: %w", onto.ID(), err)
		}
	}
	return report, nil
}

func (d *Driver) done(ctx context.Context, ontologyID string) (bool, error) {
	_, err := d.state.Load(ctx, ontologyID)
	if errors.Is(err, domain.ErrRunStateNotFound) {
		return false, nil
	}
	if err != nil {
		return false, domain.Collaborator("load run state", err)
	}
	return true, nil
}

func (d *Driver) augmentOne(ctx context.Context, onto ports.Ontology) (res domain.OntologyResult, err error) {
	id := onto.ID()
	logger := d.logger.With("ontology", id)
	res = domain.OntologyResult{OntologyID: id}

	finished, err := d.done(ctx, id)
	if err != nil {
		res.Status = domain.StatusFailed
		return res, err
	}
	if finished {
		logger.Debug("ontology already augmented")
		res.Status = domain.StatusAlreadyDone
		return res, nil
	}

	if d.locker != nil {
		unlock, err := d.locker.Lock(ctx, id, d.lockTTL)
		if err != nil {
			res.Status = domain.StatusFailed
			return res, domain.Collaborator("lock ontology", err)
		}
		defer func() {
			if uerr := unlock(context.WithoutCancel(ctx)); uerr != nil {
				logger.Warn("failed to release ontology lock", "error", uerr)
			}
		}()

		// Another process may have finished while we waited.
		finished, err = d.done(ctx, id)
		if err != nil {
			res.Status = domain.StatusFailed
			return res, err
		}
		if finished {
			res.Status = domain.StatusAlreadyDone
			return res, nil
		}
	}

	d.emitRun(ctx, d.hooks.OnRunStart, domain.EventRunStart, id, &res, nil)
	defer func() {
		d.emitRun(ctx, d.hooks.OnRunEnd, domain.EventRunEnd, id, &res, err)
	}()

	d.resolver.Purge()
	for _, class := range d.registry.Classes() {
		for _, dir := range d.registry.DirectivesFor(class) {
			dr, created, derr := d.runDirective(ctx, logger, onto, dir)
			res.Directives = append(res.Directives, dr)
			res.Changes += dr.Changes
			res.NewIndividuals = append(res.NewIndividuals, created...)
			if derr != nil {
				res.Status = domain.StatusFailed
				logger.Error("augmentation failed", "directive", dir.ID(), "error", derr)
				return res, derr
			}
		}
	}

	rec := domain.RunRecord{OntologyID: id, CompletedAt: d.now().UTC(), Changes: res.Changes}
	if err := d.state.Save(ctx, rec); err != nil {
		res.Status = domain.StatusFailed
		return res, domain.Collaborator("save run state", err)
	}
	res.Status = domain.StatusAugmented
	logger.Info("ontology augmented", "changes", res.Changes, "new_individuals", len(res.NewIndividuals))
	return res, nil
}

func (d *Driver) runDirective(ctx context.Context, logger *slog.Logger, onto ports.Ontology, dir domain.Directive) (domain.DirectiveResult, []domain.IndividualID, error) {
	start := d.now()
	res := domain.DirectiveResult{Directive: dir.ID(), Kind: dir.Kind()}
	logger = logger.With("class", dir.Class, "directive", dir.ID())

	logger.Debug("START augmenting", "kind", dir.Kind())
	d.emitDirective(ctx, d.hooks.OnDirectiveStart, domain.EventDirectiveStart, onto.ID(), &res, nil)

	var created []domain.IndividualID
	err := func() error {
		tuples, err := d.resolver.Resolve(ctx, onto, dir)
		if err != nil {
			return err
		}
		res.Candidates = len(tuples)
		for _, t := range tuples {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := d.mat.Apply(ctx, onto, dir, t)
			if err != nil {
				return err
			}
			if !out.Changed() {
				continue
			}
			res.Changes++
			if out.Created != "" {
				created = append(created, out.Created)
			}
			if d.hooks.OnMutation != nil {
				d.hooks.OnMutation(ctx, &domain.MutationEvent{
					EventBase: d.base(domain.EventMutation, onto.ID()),
					Directive: dir.ID(),
					Kind:      dir.Kind(),
					Effect:    out.Effect,
					Tuple:     t,
					Created:   out.Created,
				})
			}
		}
		return nil
	}()

	res.Duration = d.now().Sub(start)
	logger.Debug("DONE augmenting", "candidates", res.Candidates, "changes", res.Changes)
	d.emitDirective(ctx, d.hooks.OnDirectiveEnd, domain.EventDirectiveEnd, onto.ID(), &res, err)
	return res, created, err
}

func (d *Driver) base(t domain.EventType, ontologyID string) domain.EventBase {
	return domain.EventBase{Timestamp: d.now(), Type: t, OntologyID: ontologyID}
}

func (d *Driver) emitRun(ctx context.Context, fn func(context.Context, *domain.RunEvent), t domain.EventType, id string, res *domain.OntologyResult, err error) {
	if fn == nil {
		return
	}
	fn(ctx, &domain.RunEvent{
		EventBase: d.base(t, id),
		Status:    res.Status,
		Changes:   res.Changes,
		Err:       err,
	})
}

func (d *Driver) emitDirective(ctx context.Context, fn func(context.Context, *domain.DirectiveEvent), t domain.EventType, id string, res *domain.DirectiveResult, err error) {
	if fn == nil {
		return
	}
	fn(ctx, &domain.DirectiveEvent{
		EventBase:  d.base(t, id),
		Directive:  res.Directive,
		Kind:       res.Kind,
		Candidates: res.Candidates,
		Changes:    res.Changes,
		Duration:   res.Duration,
		Err:        err,
	})
}

// Status returns the run record of an ontology, or domain.ErrRunStateNotFound.
func (d *Driver) Status(ctx context.Context, ontologyID string) (*domain.RunRecord, error) {
	return d.state.Load(ctx, ontologyID)
}

// Augmented lists the ontologies marked done.
func (d *Driver) Augmented(ctx context.Context) ([]string, error) {
	return d.state.List(ctx)
}

// Reset forgets run state and reified tuples so the ontologies can be
// augmented again. With no IDs every ontology is reset.
func (d *Driver) Reset(ctx context.Context, ontologyIDs ...string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.resolver.Purge()
	if len(ontologyIDs) == 0 {
		if err := d.resetAll(ctx); err != nil {
			return err
		}
		d.logger.Info("run state reset", "ontologies", "all")
		return nil
	}

	for _, id := range ontologyIDs {
		if err := d.state.Delete(ctx, id); err != nil {
			return domain.Collaborator("delete run state", err)
		}
		if err := d.ledger.Clear(ctx, id); err != nil {
			return domain.Collaborator("clear tuple ledger", err)
		}
	}
	d.logger.Info("run state reset", "ontologies", len(ontologyIDs))
	return nil
}

func (d *Driver) resetAll(ctx context.Context) error {
	ids, err := d.state.List(ctx)
	if err != nil {
		return domain.Collaborator("list run state", err)
	}
	for _, id := range ids {
		if err := d.state.Delete(ctx, id); err != nil {
			return domain.Collaborator("delete run state", err)
		}
	}
	if err := d.ledger.Clear(ctx, ""); err != nil {
		return domain.Collaborator("clear tuple ledger", err)
	}
	return nil
}

// Package cli wires configuration into engines for the augur command.
package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/augur"
	"github.com/aretw0/augur/internal/config"
	"github.com/aretw0/augur/pkg/adapters/file"
	"github.com/aretw0/augur/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/augur/pkg/adapters/redis"
	"github.com/aretw0/augur/pkg/domain"
	"github.com/aretw0/augur/pkg/ports"
	"github.com/aretw0/augur/pkg/registry"
)

// Backends holds the persistence adapters selected by the configuration.
type Backends struct {
	State  ports.RunStateStore
	Ledger ports.TupleLedger
	Locker ports.DistributedLocker

	close func() error
}

// Close releases the backend connections.
func (b *Backends) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// OpenBackends creates the run state store, tuple ledger and, for redis,
// the distributed locker.
func OpenBackends(cfg config.Config) (*Backends, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		return &Backends{State: memory.NewStore(), Ledger: memory.NewLedger()}, nil

	case config.BackendFile:
		return &Backends{
			State:  file.New(filepath.Join(cfg.StateDir, "runs")),
			Ledger: file.NewLedger(filepath.Join(cfg.StateDir, "ledger")),
		}, nil

	case config.BackendRedis:
		opts := []redisAdapter.Option{redisAdapter.WithPrefix(cfg.Redis.Prefix)}
		if cfg.Redis.TTL > 0 {
			opts = append(opts, redisAdapter.WithTTL(cfg.Redis.TTL))
		}
		store := redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		return &Backends{
			State:  store,
			Ledger: redisAdapter.NewLedger(store.Client(), cfg.Redis.Prefix),
			Locker: redisAdapter.NewLocker(store.Client(), cfg.Redis.Prefix),
			close:  store.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// NewEngine builds an engine over reg using the configured backends.
func NewEngine(cfg config.Config, reg *registry.Registry, b *Backends, logger *slog.Logger, hooks domain.LifecycleHooks) (*augur.Engine, error) {
	opts := []augur.Option{
		augur.WithLogger(logger),
		augur.WithRunStateStore(b.State),
		augur.WithTupleLedger(b.Ledger),
		augur.WithCacheSize(cfg.CacheSize),
		augur.WithLifecycleHooks(hooks),
	}
	if b.Locker != nil {
		opts = append(opts, augur.WithLocker(b.Locker, cfg.LockTTL))
	}

	engine, err := augur.New(reg, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}

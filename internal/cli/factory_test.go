package cli

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/augur/internal/config"
	"github.com/aretw0/augur/internal/logging"
	"github.com/aretw0/augur/internal/packs/traffic"
	"github.com/aretw0/augur/pkg/adapters/file"
	"github.com/aretw0/augur/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/augur/pkg/adapters/redis"
	"github.com/aretw0/augur/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackends(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		b, err := OpenBackends(config.Default())
		require.NoError(t, err)
		assert.IsType(t, &memory.Store{}, b.State)
		assert.Nil(t, b.Locker)
		assert.NoError(t, b.Close())
	})

	t.Run("file", func(t *testing.T) {
		cfg := config.Default()
		cfg.Backend = config.BackendFile
		cfg.StateDir = t.TempDir()

		b, err := OpenBackends(cfg)
		require.NoError(t, err)
		assert.IsType(t, &file.Store{}, b.State)
		assert.IsType(t, &file.Ledger{}, b.Ledger)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := config.Default()
		cfg.Backend = config.BackendRedis
		cfg.Redis.Addr = mr.Addr()

		b, err := OpenBackends(cfg)
		require.NoError(t, err)
		defer b.Close()
		assert.IsType(t, &redisAdapter.Store{}, b.State)
		assert.NotNil(t, b.Locker)
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := config.Default()
		cfg.Backend = "etcd"
		_, err := OpenBackends(cfg)
		assert.Error(t, err)
	})
}

func TestNewEngine_RedisRunState(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cfg := config.Default()
	cfg.Backend = config.BackendRedis
	cfg.Redis.Addr = mr.Addr()

	b, err := OpenBackends(cfg)
	require.NoError(t, err)
	defer b.Close()

	engine, err := NewEngine(cfg, traffic.Declare().MustBuild(), b, logging.NewNop(), domain.LifecycleHooks{})
	require.NoError(t, err)

	onto, err := traffic.LoadScene()
	require.NoError(t, err)
	report, err := engine.Augment(ctx, onto)
	require.NoError(t, err)
	assert.Positive(t, report.Changes())

	assert.True(t, mr.Exists("augur:run:traffic"))
	assert.False(t, mr.Exists("augur:lock:traffic"), "lock is released after the pass")

	fresh, err := traffic.LoadScene()
	require.NoError(t, err)
	report, err = engine.Augment(ctx, fresh)
	require.NoError(t, err)
	res, _ := report.Result("traffic")
	assert.Equal(t, domain.StatusAlreadyDone, res.Status)
}

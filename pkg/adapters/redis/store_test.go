package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/augur/pkg/adapters/redis"
	"github.com/aretw0/augur/pkg/domain"
	"github.com/aretw0/augur/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunStateStoreContract(t, redis.NewFromClient(client))
}

func TestRedisLedger_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.TupleLedgerContract(t, redis.NewLedger(client, ""))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	ontologyID := "onto-ttl"

	err := store.Save(ctx, domain.RunRecord{OntologyID: ontologyID, CompletedAt: time.Now()})
	assert.NoError(t, err)

	ids, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, ids, ontologyID)

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, ontologyID)
	assert.ErrorIs(t, err, domain.ErrRunStateNotFound)

	// Index pruning compares against the wall clock, not miniredis time.
	time.Sleep(1200 * time.Millisecond)

	ids, err = store.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	err := store.Save(ctx, domain.RunRecord{OntologyID: "traffic", CompletedAt: time.Now()})
	assert.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:run:traffic"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:runs"), "Expected index with custom prefix to exist")

	list, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, list, "traffic")
}

func TestRedisLedger_ClearAllRemovesKeys(t *testing.T) {
	mr, client := newClient(t)
	ledger := redis.NewLedger(client, "t:")
	ctx := context.Background()

	require.NoError(t, ledger.Add(ctx, "a", "C.f", "k1"))
	require.NoError(t, ledger.Add(ctx, "b", "C.f", "k2"))
	assert.True(t, mr.Exists("t:ledger:a"))

	require.NoError(t, ledger.Clear(ctx, ""))
	assert.False(t, mr.Exists("t:ledger:a"))
	assert.False(t, mr.Exists("t:ledger:b"))
	assert.False(t, mr.Exists("t:ledgers"))
}

package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/augur/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a RunStateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store RunStateStore) {
	ctx := context.Background()
	ontologyID := "contract-onto-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		rec := domain.RunRecord{
			OntologyID:  ontologyID,
			CompletedAt: time.Now().UTC().Truncate(time.Second),
			Changes:     7,
		}

		err := store.Save(ctx, rec)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, ontologyID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, rec.OntologyID, loaded.OntologyID)
		assert.Equal(t, 7, loaded.Changes)
		assert.True(t, rec.CompletedAt.Equal(loaded.CompletedAt), "CompletedAt should round-trip")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+ontologyID)
		assert.ErrorIs(t, err, domain.ErrRunStateNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, domain.RunRecord{OntologyID: ontologyID, CompletedAt: time.Now()})
		require.NoError(t, err)

		err = store.Delete(ctx, ontologyID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, ontologyID)
		assert.ErrorIs(t, err, domain.ErrRunStateNotFound, "Load after Delete should return ErrRunStateNotFound")

		assert.NoError(t, store.Delete(ctx, ontologyID), "Deleting twice should be a no-op")
	})

	t.Run("List", func(t *testing.T) {
		id1 := ontologyID + "-1"
		id2 := "http://example.org/onto#" + ontologyID
		require.NoError(t, store.Save(ctx, domain.RunRecord{OntologyID: id1, CompletedAt: time.Now()}))
		require.NoError(t, store.Save(ctx, domain.RunRecord{OntologyID: id2, CompletedAt: time.Now()}))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}

// TupleLedgerContract verifies that a TupleLedger implementation scopes keys
// by ontology and directive and clears them on demand.
func TupleLedgerContract(t *testing.T, ledger TupleLedger) {
	ctx := context.Background()
	key := domain.Tuple{"a", "b"}.Key()

	t.Run("Add and Contains", func(t *testing.T) {
		ok, err := ledger.Contains(ctx, "onto-1", "Driver.meets", key)
		require.NoError(t, err)
		assert.False(t, ok, "fresh ledger should not contain key")

		require.NoError(t, ledger.Add(ctx, "onto-1", "Driver.meets", key))
		require.NoError(t, ledger.Add(ctx, "onto-1", "Driver.meets", key), "Add should be idempotent")

		ok, err = ledger.Contains(ctx, "onto-1", "Driver.meets", key)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Scoped by directive and ontology", func(t *testing.T) {
		ok, err := ledger.Contains(ctx, "onto-1", "Driver.passes", key)
		require.NoError(t, err)
		assert.False(t, ok, "key must not leak to another directive")

		ok, err = ledger.Contains(ctx, "onto-2", "Driver.meets", key)
		require.NoError(t, err)
		assert.False(t, ok, "key must not leak to another ontology")
	})

	t.Run("Clear one ontology", func(t *testing.T) {
		require.NoError(t, ledger.Add(ctx, "onto-2", "Driver.meets", key))
		require.NoError(t, ledger.Clear(ctx, "onto-1"))

		ok, err := ledger.Contains(ctx, "onto-1", "Driver.meets", key)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = ledger.Contains(ctx, "onto-2", "Driver.meets", key)
		require.NoError(t, err)
		assert.True(t, ok, "other ontologies must survive a scoped clear")
	})

	t.Run("Clear all", func(t *testing.T) {
		require.NoError(t, ledger.Clear(ctx, ""))

		ok, err := ledger.Contains(ctx, "onto-2", "Driver.meets", key)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

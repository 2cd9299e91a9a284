package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/augur/pkg/domain"
)

// Store implements ports.RunStateStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.RunRecord
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.RunRecord),
	}
}

// Save records the ontology as augmented.
func (s *Store) Save(ctx context.Context, rec domain.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[rec.OntologyID] = rec
	return nil
}

// Load retrieves the run record from memory.
func (s *Store) Load(ctx context.Context, ontologyID string) (*domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[ontologyID]
	if !ok {
		return nil, domain.ErrRunStateNotFound
	}
	return &rec, nil
}

// Delete removes the run record.
func (s *Store) Delete(ctx context.Context, ontologyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, ontologyID)
	return nil
}

// List returns the augmented ontologies in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

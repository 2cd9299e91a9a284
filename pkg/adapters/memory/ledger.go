package memory

import (
	"context"
	"sync"
)

// Ledger implements ports.TupleLedger in memory.
type Ledger struct {
	mu   sync.RWMutex
	keys map[string]map[string]map[string]struct{}
}

// NewLedger creates an empty tuple ledger.
func NewLedger() *Ledger {
	return &Ledger{
		keys: make(map[string]map[string]map[string]struct{}),
	}
}

// Contains reports whether key was recorded for the directive.
func (l *Ledger) Contains(ctx context.Context, ontologyID, directive, key string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.keys[ontologyID][directive][key]
	return ok, nil
}

// Add records key for the directive.
func (l *Ledger) Add(ctx context.Context, ontologyID, directive, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	byDirective, ok := l.keys[ontologyID]
	if !ok {
		byDirective = make(map[string]map[string]struct{})
		l.keys[ontologyID] = byDirective
	}
	set, ok := byDirective[directive]
	if !ok {
		set = make(map[string]struct{})
		byDirective[directive] = set
	}
	set[key] = struct{}{}
	return nil
}

// Clear forgets the keys of one ontology, or all keys if ontologyID is empty.
func (l *Ledger) Clear(ctx context.Context, ontologyID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if ontologyID == "" {
		l.keys = make(map[string]map[string]map[string]struct{})
		return nil
	}
	delete(l.keys, ontologyID)
	return nil
}

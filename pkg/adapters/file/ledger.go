package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// Ledger implements ports.TupleLedger with one JSON file per ontology.
// The file maps directive IDs to the sorted tuple keys already reified.
//
// Each file is read once and kept decoded in memory; the ledger assumes it is
// the only writer of BasePath while it is in use.
type Ledger struct {
	BasePath string
	mu       sync.Mutex
	loaded   map[string]ledgerFile
}

// NewLedger creates a ledger rooted at basePath.
// If basePath is empty, it defaults to ".augur/ledger".
func NewLedger(basePath string) *Ledger {
	if basePath == "" {
		basePath = filepath.Join(".augur", "ledger")
	}
	return &Ledger{BasePath: basePath}
}

type ledgerFile map[string][]string

func (l *Ledger) loadLocked(ontologyID string) (ledgerFile, error) {
	if lf, ok := l.loaded[ontologyID]; ok {
		return lf, nil
	}
	lf, err := l.readLocked(ontologyID)
	if err != nil {
		return nil, err
	}
	if l.loaded == nil {
		l.loaded = make(map[string]ledgerFile)
	}
	l.loaded[ontologyID] = lf
	return lf, nil
}

func (l *Ledger) readLocked(ontologyID string) (ledgerFile, error) {
	data, err := os.ReadFile(filepath.Join(l.BasePath, fileName(ontologyID)))
	if err != nil {
		if os.IsNotExist(err) {
			return ledgerFile{}, nil
		}
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	var lf ledgerFile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ledger: %w", err)
	}
	if lf == nil {
		lf = ledgerFile{}
	}
	return lf, nil
}

// Contains reports whether key was recorded for the directive.
func (l *Ledger) Contains(ctx context.Context, ontologyID, directive, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lf, err := l.loadLocked(ontologyID)
	if err != nil {
		return false, err
	}
	_, found := slices.BinarySearch(lf[directive], key)
	return found, nil
}

// Add records key for the directive.
func (l *Ledger) Add(ctx context.Context, ontologyID, directive, key string) error {
	if ontologyID == "" {
		return fmt.Errorf("ontologyID cannot be empty")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	lf, err := l.loadLocked(ontologyID)
	if err != nil {
		return err
	}
	keys := lf[directive]
	i, found := slices.BinarySearch(keys, key)
	if found {
		return nil
	}

	// The cached entry changes only once the file is written.
	next := make(ledgerFile, len(lf))
	for k, v := range lf {
		next[k] = v
	}
	next[directive] = slices.Insert(slices.Clone(keys), i, key)

	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}
	if err := writeAtomic(l.BasePath, fileName(ontologyID), data); err != nil {
		return err
	}
	l.loaded[ontologyID] = next
	return nil
}

// Clear forgets the keys of one ontology, or all keys if ontologyID is empty.
func (l *Ledger) Clear(ctx context.Context, ontologyID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if ontologyID == "" {
		l.loaded = nil
		err := os.RemoveAll(l.BasePath)
		if err != nil {
			return fmt.Errorf("failed to clear ledger: %w", err)
		}
		return nil
	}
	delete(l.loaded, ontologyID)
	err := os.Remove(filepath.Join(l.BasePath, fileName(ontologyID)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear ledger: %w", err)
	}
	return nil
}

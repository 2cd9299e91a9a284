package file

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/augur/pkg/domain"
)

// Store implements ports.RunStateStore using the local filesystem.
// It stores one JSON run record per ontology in a configured directory.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".augur/runs".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".augur", "runs")
	}
	return &Store{BasePath: basePath}
}

// fileName escapes ontology IDs, which are often IRIs.
func fileName(ontologyID string) string {
	return url.QueryEscape(ontologyID) + ".json"
}

// Save persists the run record to a JSON file atomically.
func (s *Store) Save(ctx context.Context, rec domain.RunRecord) error {
	if rec.OntologyID == "" {
		return fmt.Errorf("ontologyID cannot be empty")
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}
	return writeAtomic(s.BasePath, fileName(rec.OntologyID), data)
}

// writeAtomic writes data to dir/name through a synced temp file and a rename.
// The temp file lives in the same directory so the rename stays on one filesystem.
func writeAtomic(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure directory: %w", err)
	}
	destPath := filepath.Join(dir, name)

	tmpFile, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// os.Rename fails on Windows if dest exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Load retrieves the run record from its JSON file.
func (s *Store) Load(ctx context.Context, ontologyID string) (*domain.RunRecord, error) {
	if ontologyID == "" {
		return nil, fmt.Errorf("ontologyID cannot be empty")
	}

	data, err := os.ReadFile(filepath.Join(s.BasePath, fileName(ontologyID)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrRunStateNotFound
		}
		return nil, fmt.Errorf("failed to read run record: %w", err)
	}

	var rec domain.RunRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run record: %w", err)
	}
	return &rec, nil
}

// Delete removes the run record file.
func (s *Store) Delete(ctx context.Context, ontologyID string) error {
	if ontologyID == "" {
		return fmt.Errorf("ontologyID cannot be empty")
	}

	err := os.Remove(filepath.Join(s.BasePath, fileName(ontologyID)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete run record: %w", err)
	}
	return nil
}

// List returns the IDs of every augmented ontology.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list run records: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		id, err := url.QueryUnescape(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

package redis

import (
	"context"
	"fmt"

	backend "github.com/redis/go-redis/v9"
)

// Ledger implements ports.TupleLedger with one Redis SET per ontology.
// Members are "directive\x1fkey". A second SET tracks the ontologies present
// so that a full clear needs no SCAN.
type Ledger struct {
	client *backend.Client
	prefix string
}

// NewLedger creates a ledger on client. An empty prefix means DefaultPrefix.
func NewLedger(client *backend.Client, prefix string) *Ledger {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Ledger{client: client, prefix: prefix}
}

func (l *Ledger) key(ontologyID string) string {
	return l.prefix + "ledger:" + ontologyID
}

func (l *Ledger) indexKey() string {
	return l.prefix + "ledgers"
}

func member(directive, key string) string {
	return directive + "\x1f" + key
}

// Contains reports whether key was recorded for the directive.
func (l *Ledger) Contains(ctx context.Context, ontologyID, directive, key string) (bool, error) {
	ok, err := l.client.SIsMember(ctx, l.key(ontologyID), member(directive, key)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to query ledger: %w", err)
	}
	return ok, nil
}

// Add records key for the directive.
func (l *Ledger) Add(ctx context.Context, ontologyID, directive, key string) error {
	pipe := l.client.TxPipeline()
	pipe.SAdd(ctx, l.key(ontologyID), member(directive, key))
	pipe.SAdd(ctx, l.indexKey(), ontologyID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record tuple: %w", err)
	}
	return nil
}

// Clear forgets the keys of one ontology, or all keys if ontologyID is empty.
func (l *Ledger) Clear(ctx context.Context, ontologyID string) error {
	ids := []string{ontologyID}
	if ontologyID == "" {
		var err error
		ids, err = l.client.SMembers(ctx, l.indexKey()).Result()
		if err != nil {
			return fmt.Errorf("failed to list ledgers: %w", err)
		}
	}

	pipe := l.client.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, l.key(id))
		pipe.SRem(ctx, l.indexKey(), id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear ledger: %w", err)
	}
	return nil
}

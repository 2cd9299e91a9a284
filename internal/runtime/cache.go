package runtime

import (
	"sync/atomic"

	"github.com/aretw0/augur/pkg/domain"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of search spaces kept per pass.
const DefaultCacheSize = 2048

// CacheStats reports search space cache usage since creation.
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Len    int   `json:"len"`
}

// SearchSpaceCache memoizes resolved search spaces keyed by ontology and directive.
// The driver purges it at the start of every ontology pass.
type SearchSpaceCache struct {
	lru    *lru.Cache[string, []domain.Tuple]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewSearchSpaceCache creates a cache holding at most size entries.
// A size <= 0 selects DefaultCacheSize.
func NewSearchSpaceCache(size int) (*SearchSpaceCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[string, []domain.Tuple](size)
	if err != nil {
		return nil, err
	}
	return &SearchSpaceCache{lru: c}, nil
}

func cacheKey(ontologyID, directiveID string) string {
	return ontologyID + "/" + directiveID
}

// Get returns the cached search space of a directive.
func (c *SearchSpaceCache) Get(ontologyID, directiveID string) ([]domain.Tuple, bool) {
	tuples, ok := c.lru.Get(cacheKey(ontologyID, directiveID))
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return tuples, ok
}

// Add stores the search space of a directive.
func (c *SearchSpaceCache) Add(ontologyID, directiveID string, tuples []domain.Tuple) {
	c.lru.Add(cacheKey(ontologyID, directiveID), tuples)
}

// Purge drops every entry. Counters are kept.
func (c *SearchSpaceCache) Purge() {
	c.lru.Purge()
}

// Stats returns a snapshot of the counters.
func (c *SearchSpaceCache) Stats() CacheStats {
	return CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Len:    c.lru.Len(),
	}
}

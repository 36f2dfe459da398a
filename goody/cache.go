package goody

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"apack/common"
)

// DefaultCacheSize bounds number of merged documents kept by MergeCache.
// Realistic selection space is far below it.
const DefaultCacheSize = 1024

type cacheKey struct {
	lang  common.Language
	names string
}

// newCacheKey normalizes selection so that any order of the same names
// produces the same key, exactly as Compose does not depend on the order.
func newCacheKey(lang common.Language, names []string) cacheKey {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	return cacheKey{lang: lang, names: strings.Join(sorted, "\x00")}
}

// CacheStats is a snapshot of MergeCache counters.
type CacheStats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// MergeCache memoizes merged documents for (language, set of equipped
// names) over a single catalog. Replacing the catalog drops everything.
type MergeCache struct {
	mu      sync.Mutex
	catalog *Catalog
	entries *lru.Cache[cacheKey, string]
	hits    uint64
	misses  uint64
}

// NewMergeCache creates cache over catalog, which could be nil - then every
// document is empty. size <= 0 selects DefaultCacheSize.
func NewMergeCache(catalog *Catalog, size int) (*MergeCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[cacheKey, string](size)
	if err != nil {
		return nil, fmt.Errorf("unable to create merge cache: %w", err)
	}
	return &MergeCache{catalog: catalog, entries: entries}, nil
}

// GetOrCompute returns merged document for the language and names. Names
// which are not in the catalog are ignored. Lock is held for the whole
// read-compute-insert sequence so every key is computed at most once.
func (c *MergeCache) GetOrCompute(lang common.Language, names []string) string {
	key := newCacheKey(lang, names)

	c.mu.Lock()
	defer c.mu.Unlock()

	if doc, ok := c.entries.Get(key); ok {
		c.hits++
		return doc
	}
	c.misses++
	doc := Compose(lang, c.catalog.Lookup(lang, names))
	c.entries.Add(key, doc)
	return doc
}

// Reset switches cache to the new catalog dropping all merged documents.
func (c *MergeCache) Reset(catalog *Catalog) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.catalog = catalog
	c.entries.Purge()
}

// Stats returns snapshot of cache counters.
func (c *MergeCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Hits: c.hits, Misses: c.misses, Entries: c.entries.Len()}
}

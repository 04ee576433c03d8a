package service

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"prospectfinder/internal/model"
)

// cacheKey identifies one search variant. The center is rounded to 5 decimal
// places (~1.1 m) so near-identical centers share an entry, and category keys
// are sorted so request order does not fragment the cache.
type cacheKey struct {
	Lat        float64
	Lng        float64
	Radius     int
	Categories string
	HighRecall bool
}

// CachedSearch is the payload memoized per key: the final filtered and
// truncated result set plus the leftover manual-paging token.
type CachedSearch struct {
	Results       []model.Place
	NextPageToken *string
}

type cacheEntry struct {
	storedAt time.Time
	payload  CachedSearch
}

// SearchCache memoizes search responses for a fixed TTL. Entries are swept
// lazily on lookup; there is no background eviction. Constructed once and
// shared across requests.
type SearchCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[cacheKey]cacheEntry
}

// NewSearchCache creates a response cache with the given TTL.
func NewSearchCache(ttl time.Duration) *SearchCache {
	return &SearchCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[cacheKey]cacheEntry),
	}
}

// newCacheKey builds the normalized key for a resolved search.
func newCacheKey(center GeoPoint, radiusMeters int, categories []string, highRecall bool) cacheKey {
	sorted := make([]string, len(categories))
	copy(sorted, categories)
	sort.Strings(sorted)
	return cacheKey{
		Lat:        roundCoord(center.Lat),
		Lng:        roundCoord(center.Lng),
		Radius:     radiusMeters,
		Categories: strings.Join(sorted, ","),
		HighRecall: highRecall,
	}
}

func roundCoord(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}

// Get returns the payload for key if present and younger than the TTL. Every
// lookup also evicts all expired entries.
func (c *SearchCache) Get(key cacheKey) (CachedSearch, bool) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.entries {
		if now.Sub(e.storedAt) > c.ttl {
			delete(c.entries, k)
		}
	}

	e, ok := c.entries[key]
	if !ok {
		return CachedSearch{}, false
	}
	return e.payload, true
}

// Set unconditionally stores the payload under key, stamped with the current
// time. Concurrent writers race benignly: the whole entry is replaced, so the
// last writer wins.
func (c *SearchCache) Set(key cacheKey, payload CachedSearch) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{storedAt: c.now(), payload: payload}
	c.mu.Unlock()
}

// Len reports the number of live entries (expired ones included until the
// next sweep). Used by tests.
func (c *SearchCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Package cache holds an advisory in-memory page cache for search
// pagination, so paging backward does not re-issue vendor calls.
package cache

import (
	"encoding/json"
	"sync"

	"github.com/garygao333/chert-number-search/internal/model"
)

// PageCache maps (source, serialized filter set) to cached result pages.
// It is advisory, never authoritative: entries are replaced wholesale
// whenever the source or filter set changes.
type PageCache struct {
	mu    sync.Mutex
	pages map[string]map[int][]model.PersonSearchResult
}

// New creates an empty page cache.
func New() *PageCache {
	return &PageCache{pages: make(map[string]map[int][]model.PersonSearchResult)}
}

// Key derives the cache key for a source and filter set. Filters serialize
// to JSON so distinct filter values never collide.
func Key(source model.Source, filters any) string {
	b, err := json.Marshal(filters)
	if err != nil {
		return string(source) + ":"
	}
	return string(source) + ":" + string(b)
}

// Get returns the cached page for the key, if present.
func (c *PageCache) Get(key string, page int) ([]model.PersonSearchResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	byPage, ok := c.pages[key]
	if !ok {
		return nil, false
	}
	results, ok := byPage[page]
	return results, ok
}

// Put stores a page of results under the key.
func (c *PageCache) Put(key string, page int, results []model.PersonSearchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	byPage, ok := c.pages[key]
	if !ok {
		byPage = make(map[int][]model.PersonSearchResult)
		c.pages[key] = byPage
	}
	byPage[page] = results
}

// Invalidate drops every page cached under the key. Called whenever the
// filter set or source changes.
func (c *PageCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pages, key)
}

package semantictokens

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// CacheEntry is a semantic tokens result sent to the client, kept so the
// next request can be answered with a delta
type CacheEntry struct {
	ResultID string
	Data     []uint32
	Version  int
}

type internalEntry struct {
	CacheEntry
	uri string // for reverse lookup invalidation
}

// TokenCache stores the latest semantic tokens result of each document,
// by resultID and document URI
type TokenCache struct {
	mu         sync.RWMutex
	byResultID map[string]*internalEntry // resultID -> entry
	byURI      map[string]*internalEntry // uri -> entry
	counter    uint64
}

// NewTokenCache creates a new TokenCache
func NewTokenCache() *TokenCache {
	return &TokenCache{
		byResultID: make(map[string]*internalEntry),
		byURI:      make(map[string]*internalEntry),
	}
}

// Store stores semantic tokens for a document and returns a unique resultID.
// If there was a previous entry for this URI, it is replaced.
func (c *TokenCache) Store(uri string, data []uint32, version int) string {
	// Generate unique resultID using atomic counter
	id := atomic.AddUint64(&c.counter, 1)
	resultID := fmt.Sprintf("pad-%d", id)

	// Make a copy of the data to prevent mutations
	dataCopy := make([]uint32, len(data))
	copy(dataCopy, data)

	entry := &internalEntry{
		CacheEntry: CacheEntry{
			ResultID: resultID,
			Data:     dataCopy,
			Version:  version,
		},
		uri: uri,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Remove old entry if exists (by resultID)
	if oldEntry, exists := c.byURI[uri]; exists {
		delete(c.byResultID, oldEntry.ResultID)
	}

	// Store new entry
	c.byResultID[resultID] = entry
	c.byURI[uri] = entry

	return resultID
}

// Get retrieves a cache entry by resultID
func (c *TokenCache) Get(resultID string) *CacheEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if entry, ok := c.byResultID[resultID]; ok {
		return &entry.CacheEntry
	}
	return nil
}

// GetByURI retrieves a cache entry by document URI
func (c *TokenCache) GetByURI(uri string) *CacheEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if entry, ok := c.byURI[uri]; ok {
		return &entry.CacheEntry
	}
	return nil
}

// Invalidate removes the cache entry for a document URI
func (c *TokenCache) Invalidate(uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.byURI[uri]; exists {
		delete(c.byResultID, entry.ResultID)
		delete(c.byURI, uri)
	}
}

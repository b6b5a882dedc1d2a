package tiles

import (
	"container/list"
	"sync"
	"time"
)

// tileEntry represents a single cached tile with TTL
type tileEntry struct {
	key         string
	data        []byte
	contentType string
	insertedAt  time.Time
	element     *list.Element // For LRU tracking
}

// isExpired checks if the cache entry has expired
func (e *tileEntry) isExpired(ttl time.Duration) bool {
	return time.Since(e.insertedAt) > ttl
}

// TileCache is an in-memory LRU cache with TTL for tile image data.
// Thread-safe implementation using sync.Mutex. Only successfully fetched
// tiles are cached; failures never are.
type TileCache struct {
	mu      sync.Mutex
	entries map[string]*tileEntry
	lruList *list.List // Doubly linked list for LRU tracking
	maxSize int        // Maximum number of entries
	ttl     time.Duration
	hits    uint64
	misses  uint64
}

// NewTileCache creates a new TileCache with specified max size and TTL
func NewTileCache(maxSize int, ttl time.Duration) *TileCache {
	return &TileCache{
		entries: make(map[string]*tileEntry),
		lruList: list.New(),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// Get retrieves a tile from cache.
// Returns nil, "" , false if not found or expired.
func (c *TileCache) Get(key string) ([]byte, string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	if !exists || entry.isExpired(c.ttl) {
		c.misses++
		if exists {
			c.removeEntry(key)
		}
		return nil, "", false
	}

	// Move to front (most recently used)
	c.lruList.MoveToFront(entry.element)
	c.hits++

	return entry.data, entry.contentType, true
}

// Set stores a tile in cache
func (c *TileCache) Set(key string, data []byte, contentType string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.entries[key]; exists {
		entry.data = data
		entry.contentType = contentType
		entry.insertedAt = time.Now()
		c.lruList.MoveToFront(entry.element)
		return
	}

	// Evict least recently used entry if cache is full
	if c.lruList.Len() >= c.maxSize {
		c.evictLRU()
	}

	entry := &tileEntry{
		key:         key,
		data:        data,
		contentType: contentType,
		insertedAt:  time.Now(),
	}

	entry.element = c.lruList.PushFront(key)
	c.entries[key] = entry
}

// Clear removes all entries from the cache
func (c *TileCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*tileEntry)
	c.lruList.Init()
}

// CacheStats represents cache statistics
type CacheStats struct {
	Size    int
	MaxSize int
	Hits    uint64
	Misses  uint64
	HitRate float64
}

// Stats returns cache statistics
func (c *TileCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{
		Size:    c.lruList.Len(),
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: c.calculateHitRate(),
	}
}

// calculateHitRate calculates the cache hit rate (must be called with lock held)
func (c *TileCache) calculateHitRate() float64 {
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}

// removeEntry removes an entry from the cache (must be called with lock held)
func (c *TileCache) removeEntry(key string) {
	if entry, exists := c.entries[key]; exists {
		c.lruList.Remove(entry.element)
		delete(c.entries, key)
	}
}

// evictLRU evicts the least recently used entry (must be called with lock held)
func (c *TileCache) evictLRU() {
	backElement := c.lruList.Back()
	if backElement != nil {
		key := backElement.Value.(string)
		c.lruList.Remove(backElement)
		delete(c.entries, key)
	}
}

// CleanupExpired removes all expired entries and returns how many were
// dropped. Should be called periodically in a background goroutine.
func (c *TileCache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiredKeys := make([]string, 0)
	for key, entry := range c.entries {
		if entry.isExpired(c.ttl) {
			expiredKeys = append(expiredKeys, key)
		}
	}

	for _, key := range expiredKeys {
		c.removeEntry(key)
	}

	return len(expiredKeys)
}

// StartCleanupWorker starts a background worker to periodically clean up
// expired entries
func (c *TileCache) StartCleanupWorker(interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.CleanupExpired()
		case <-stopCh:
			return
		}
	}
}

package hsml

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// ResultCache caches compiled markup keyed by a hash of the source, so an
// unchanged document is not parsed twice.
type ResultCache struct {
	mu        sync.RWMutex
	entries   map[string]*resultCacheEntry
	config    ResultCacheConfig
	stats     ResultCacheStats
	evictList []string // insertion order for eviction
}

// resultCacheEntry holds a cached result with metadata.
type resultCacheEntry struct {
	Result    string
	CreatedAt time.Time
	ExpiresAt time.Time
	HitCount  int
}

// ResultCacheConfig configures the result cache behavior.
type ResultCacheConfig struct {
	// TTL is how long results are cached. Default: 5 minutes.
	TTL time.Duration

	// MaxEntries is the maximum number of cached results. Default: 1000.
	MaxEntries int

	// MaxResultSize is the maximum size of a result to cache (bytes). Default: 1MB.
	MaxResultSize int

	// KeyPrefix is prepended to all cache keys. Useful for namespacing.
	KeyPrefix string
}

// ResultCacheStats tracks cache performance metrics.
type ResultCacheStats struct {
	Hits       int64
	Misses     int64
	Evictions  int64
	TotalSize  int64
	EntryCount int
}

// DefaultResultCacheConfig returns sensible defaults for result caching.
func DefaultResultCacheConfig() ResultCacheConfig {
	return ResultCacheConfig{
		TTL:           DefaultResultCacheTTL,
		MaxEntries:    DefaultResultCacheMaxEntries,
		MaxResultSize: DefaultResultCacheMaxSize,
	}
}

// NewResultCache creates a new result cache.
func NewResultCache(config ResultCacheConfig) *ResultCache {
	if config.TTL == 0 {
		config.TTL = DefaultResultCacheTTL
	}
	if config.MaxEntries == 0 {
		config.MaxEntries = DefaultResultCacheMaxEntries
	}
	if config.MaxResultSize == 0 {
		config.MaxResultSize = DefaultResultCacheMaxSize
	}

	return &ResultCache{
		entries:   make(map[string]*resultCacheEntry),
		config:    config,
		evictList: make([]string, 0, config.MaxEntries),
	}
}

// Get retrieves the compiled output for source if cached and not expired.
func (c *ResultCache) Get(source string) (string, bool) {
	return c.get(c.makeKey("", source))
}

func (c *ResultCache) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		c.stats.Misses++
		return "", false
	}

	if time.Now().After(entry.ExpiresAt) {
		c.removeLocked(key, entry)
		c.stats.Misses++
		return "", false
	}

	entry.HitCount++
	c.stats.Hits++
	return entry.Result, true
}

// Set stores the compiled output for source.
func (c *ResultCache) Set(source, result string) {
	c.set(c.makeKey("", source), result)
}

func (c *ResultCache) set(key, result string) {
	if len(result) > c.config.MaxResultSize {
		return
	}

	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, exists := c.entries[key]; exists {
		c.removeLocked(key, old)
	}
	for len(c.entries) >= c.config.MaxEntries {
		if !c.evictOldest() {
			break
		}
	}

	c.entries[key] = &resultCacheEntry{
		Result:    result,
		CreatedAt: now,
		ExpiresAt: now.Add(c.config.TTL),
	}
	c.evictList = append(c.evictList, key)
	c.stats.EntryCount = len(c.entries)
	c.stats.TotalSize += int64(len(result))
}

// Invalidate removes the entry for source.
func (c *ResultCache) Invalidate(source string) {
	key := c.makeKey("", source)

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.entries[key]; exists {
		c.removeLocked(key, entry)
	}
}

// Clear removes all entries from the cache.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*resultCacheEntry)
	c.evictList = make([]string, 0, c.config.MaxEntries)
	c.stats.TotalSize = 0
	c.stats.EntryCount = 0
}

// Stats returns current cache statistics.
func (c *ResultCache) Stats() ResultCacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// HitRate returns the cache hit rate (0.0 to 1.0).
func (c *ResultCache) HitRate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.stats.Hits + c.stats.Misses
	if total == 0 {
		return 0
	}
	return float64(c.stats.Hits) / float64(total)
}

// Cleanup removes expired entries. Call periodically for long-running applications.
func (c *ResultCache) Cleanup() int {
	now := time.Now()
	removed := 0

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			c.removeLocked(key, entry)
			removed++
		}
	}
	return removed
}

// makeKey hashes the source into a cache key. scope separates results
// compiled under different parser limits.
func (c *ResultCache) makeKey(scope, source string) string {
	hash := sha256.Sum256([]byte(source))
	return c.config.KeyPrefix + scope + hex.EncodeToString(hash[:])
}

// removeLocked drops an entry. Caller holds the write lock.
func (c *ResultCache) removeLocked(key string, entry *resultCacheEntry) {
	c.stats.TotalSize -= int64(len(entry.Result))
	delete(c.entries, key)
	for i, k := range c.evictList {
		if k == key {
			c.evictList = append(c.evictList[:i], c.evictList[i+1:]...)
			break
		}
	}
	c.stats.EntryCount = len(c.entries)
}

// evictOldest removes the oldest entry. Caller holds the write lock.
func (c *ResultCache) evictOldest() bool {
	if len(c.evictList) == 0 {
		return false
	}

	oldestKey := c.evictList[0]
	c.evictList = c.evictList[1:]

	if entry, exists := c.entries[oldestKey]; exists {
		c.stats.TotalSize -= int64(len(entry.Result))
		delete(c.entries, oldestKey)
		c.stats.Evictions++
	}
	c.stats.EntryCount = len(c.entries)
	return true
}

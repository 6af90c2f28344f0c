package hsml

import (
	"context"
	"sync"
	"time"
)

// CachedStorage wraps any DocumentStorage and caches latest-version lookups.
// Writes through the wrapper invalidate the affected name.
type CachedStorage struct {
	storage DocumentStorage
	config  StorageCacheConfig

	mu     sync.Mutex
	cache  map[string]*storageCacheEntry
	byID   map[DocumentID]*storageCacheEntry
	hits   int64
	misses int64
	closed bool
}

// StorageCacheConfig configures the caching behavior.
type StorageCacheConfig struct {
	// TTL is how long cached entries remain valid. Default: 5 minutes.
	TTL time.Duration

	// MaxEntries caps the number of cached names; the least recently
	// accessed entry is evicted first. Default: 1000.
	MaxEntries int

	// NegativeCacheTTL is how long "not found" results are cached.
	// 0 disables negative caching.
	NegativeCacheTTL time.Duration
}

// DefaultStorageCacheConfig returns the default caching configuration.
func DefaultStorageCacheConfig() StorageCacheConfig {
	return StorageCacheConfig{
		TTL:              DefaultStorageCacheTTL,
		MaxEntries:       DefaultStorageCacheMaxEntries,
		NegativeCacheTTL: DefaultStorageCacheNegativeTTL,
	}
}

type storageCacheEntry struct {
	doc        *StoredDocument
	notFound   bool
	cachedAt   time.Time
	accessedAt time.Time
	key        string
}

// StorageCacheStats contains cache statistics.
type StorageCacheStats struct {
	Entries         int
	ValidEntries    int
	NegativeEntries int
	Hits            int64
	Misses          int64
}

// NewCachedStorage wraps storage with caching.
func NewCachedStorage(storage DocumentStorage, config StorageCacheConfig) *CachedStorage {
	if config.TTL == 0 {
		config.TTL = DefaultStorageCacheTTL
	}
	if config.MaxEntries == 0 {
		config.MaxEntries = DefaultStorageCacheMaxEntries
	}

	return &CachedStorage{
		storage: storage,
		config:  config,
		cache:   make(map[string]*storageCacheEntry),
		byID:    make(map[DocumentID]*storageCacheEntry),
	}
}

// Get retrieves the latest version, using the cache when possible.
func (s *CachedStorage) Get(ctx context.Context, name string) (*StoredDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, NewStorageClosedError()
	}
	if entry, ok := s.cache[name]; ok && s.isValid(entry) {
		entry.accessedAt = time.Now()
		s.hits++
		s.mu.Unlock()

		if entry.notFound {
			return nil, NewStorageDocumentNotFoundError(name)
		}
		return copyStoredDocument(entry.doc), nil
	}
	s.misses++
	s.mu.Unlock()

	doc, err := s.storage.Get(ctx, name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}
	if err != nil {
		if IsNotFound(err) && s.config.NegativeCacheTTL > 0 {
			s.addEntry(name, nil, true)
		}
		return nil, err
	}

	s.addEntry(name, doc, false)
	return copyStoredDocument(doc), nil
}

// GetByID serves IDs of cached latest versions, otherwise asks the store.
func (s *CachedStorage) GetByID(ctx context.Context, id DocumentID) (*StoredDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, NewStorageClosedError()
	}
	if entry, ok := s.byID[id]; ok && s.isValid(entry) {
		entry.accessedAt = time.Now()
		s.hits++
		s.mu.Unlock()
		return copyStoredDocument(entry.doc), nil
	}
	s.mu.Unlock()

	return s.storage.GetByID(ctx, id)
}

// GetVersion bypasses the cache.
func (s *CachedStorage) GetVersion(ctx context.Context, name string, version int) (*StoredDocument, error) {
	return s.storage.GetVersion(ctx, name, version)
}

// Save stores doc and invalidates its name.
func (s *CachedStorage) Save(ctx context.Context, doc *StoredDocument) error {
	if err := s.storage.Save(ctx, doc); err != nil {
		return err
	}
	s.Invalidate(doc.Name)
	return nil
}

// Delete removes a document and invalidates its name.
func (s *CachedStorage) Delete(ctx context.Context, name string) error {
	if err := s.storage.Delete(ctx, name); err != nil {
		return err
	}
	s.Invalidate(name)
	return nil
}

// DeleteVersion removes a version and invalidates its name.
func (s *CachedStorage) DeleteVersion(ctx context.Context, name string, version int) error {
	if err := s.storage.DeleteVersion(ctx, name, version); err != nil {
		return err
	}
	s.Invalidate(name)
	return nil
}

// List bypasses the cache.
func (s *CachedStorage) List(ctx context.Context, query *DocumentQuery) ([]*StoredDocument, error) {
	return s.storage.List(ctx, query)
}

// Exists answers from a valid cache entry when there is one.
func (s *CachedStorage) Exists(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, NewStorageClosedError()
	}
	if entry, ok := s.cache[name]; ok && s.isValid(entry) {
		s.mu.Unlock()
		return !entry.notFound, nil
	}
	s.mu.Unlock()

	return s.storage.Exists(ctx, name)
}

// ListVersions bypasses the cache.
func (s *CachedStorage) ListVersions(ctx context.Context, name string) ([]int, error) {
	return s.storage.ListVersions(ctx, name)
}

// Close drops the cache and closes the wrapped storage.
func (s *CachedStorage) Close() error {
	s.mu.Lock()
	s.closed = true
	s.cache = nil
	s.byID = nil
	s.mu.Unlock()

	return s.storage.Close()
}

// Invalidate removes a name from the cache.
func (s *CachedStorage) Invalidate(name string) {
	s.mu.Lock()
	s.invalidateName(name)
	s.mu.Unlock()
}

// InvalidateAll clears the cache.
func (s *CachedStorage) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string]*storageCacheEntry)
	s.byID = make(map[DocumentID]*storageCacheEntry)
	s.mu.Unlock()
}

// Stats returns cache statistics.
func (s *CachedStorage) Stats() StorageCacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := StorageCacheStats{
		Entries: len(s.cache),
		Hits:    s.hits,
		Misses:  s.misses,
	}
	for _, entry := range s.cache {
		if !s.isValid(entry) {
			continue
		}
		if entry.notFound {
			stats.NegativeEntries++
		} else {
			stats.ValidEntries++
		}
	}
	return stats
}

func (s *CachedStorage) isValid(entry *storageCacheEntry) bool {
	ttl := s.config.TTL
	if entry.notFound {
		ttl = s.config.NegativeCacheTTL
	}
	return time.Since(entry.cachedAt) < ttl
}

// addEntry caches a lookup result. Caller holds the lock.
func (s *CachedStorage) addEntry(name string, doc *StoredDocument, notFound bool) {
	s.invalidateName(name)
	if len(s.cache) >= s.config.MaxEntries {
		s.evictOldest()
	}

	now := time.Now()
	entry := &storageCacheEntry{
		doc:        copyStoredDocument(doc),
		notFound:   notFound,
		cachedAt:   now,
		accessedAt: now,
		key:        name,
	}
	s.cache[name] = entry
	if doc != nil {
		s.byID[doc.ID] = entry
	}
}

// invalidateName drops a name. Caller holds the lock.
func (s *CachedStorage) invalidateName(name string) {
	entry, ok := s.cache[name]
	if !ok {
		return
	}
	if entry.doc != nil {
		delete(s.byID, entry.doc.ID)
	}
	delete(s.cache, name)
}

// evictOldest removes the least recently accessed entry. Caller holds the lock.
func (s *CachedStorage) evictOldest() {
	var oldest *storageCacheEntry
	for _, entry := range s.cache {
		if oldest == nil || entry.accessedAt.Before(oldest.accessedAt) {
			oldest = entry
		}
	}
	if oldest != nil {
		s.invalidateName(oldest.key)
	}
}

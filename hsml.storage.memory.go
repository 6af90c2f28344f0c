package hsml

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage keeps documents in process memory. Used for tests, the
// CLI default and as the inner store of short-lived tools.
type MemoryStorage struct {
	mu     sync.RWMutex
	docs   map[string][]*StoredDocument // name -> versions, newest first
	byID   map[DocumentID]*StoredDocument
	closed bool
}

// MemoryStorageDriver opens MemoryStorage instances.
type MemoryStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverMemory, &MemoryStorageDriver{})
}

// Open creates a new MemoryStorage. The connection string is ignored.
func (d *MemoryStorageDriver) Open(connectionString string) (DocumentStorage, error) {
	return NewMemoryStorage(), nil
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		docs: make(map[string][]*StoredDocument),
		byID: make(map[DocumentID]*StoredDocument),
	}
}

// ready checks the context and the closed flag. Caller holds a lock.
func (s *MemoryStorage) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.closed {
		return NewStorageClosedError()
	}
	return nil
}

// Get retrieves the latest version of a document by name.
func (s *MemoryStorage) Get(ctx context.Context, name string) (*StoredDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	versions := s.docs[name]
	if len(versions) == 0 {
		return nil, NewStorageDocumentNotFoundError(name)
	}
	return copyStoredDocument(versions[0]), nil
}

// GetByID retrieves a specific version by ID.
func (s *MemoryStorage) GetByID(ctx context.Context, id DocumentID) (*StoredDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	doc, ok := s.byID[id]
	if !ok {
		return nil, NewStorageDocumentNotFoundError(string(id))
	}
	return copyStoredDocument(doc), nil
}

// GetVersion retrieves a specific version of a document.
func (s *MemoryStorage) GetVersion(ctx context.Context, name string, version int) (*StoredDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	for _, doc := range s.docs[name] {
		if doc.Version == version {
			return copyStoredDocument(doc), nil
		}
	}
	return nil, NewStorageVersionNotFoundError(name, version)
}

// Save stores doc as the next version of its name.
func (s *MemoryStorage) Save(ctx context.Context, doc *StoredDocument) error {
	if err := validateDocument(doc); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(ctx); err != nil {
		return err
	}

	versions := s.docs[doc.Name]
	nextVersion := 1
	if len(versions) > 0 {
		nextVersion = versions[0].Version + 1
	}

	now := time.Now()
	stored := copyStoredDocument(doc)
	stored.ID = generateDocumentID()
	stored.Version = nextVersion
	stored.CreatedAt = now
	stored.UpdatedAt = now

	doc.ID = stored.ID
	doc.Version = stored.Version
	doc.CreatedAt = stored.CreatedAt
	doc.UpdatedAt = stored.UpdatedAt

	s.docs[doc.Name] = append([]*StoredDocument{stored}, versions...)
	s.byID[stored.ID] = stored
	return nil
}

// Delete removes all versions of a document.
func (s *MemoryStorage) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(ctx); err != nil {
		return err
	}

	versions, ok := s.docs[name]
	if !ok {
		return NewStorageDocumentNotFoundError(name)
	}
	for _, doc := range versions {
		delete(s.byID, doc.ID)
	}
	delete(s.docs, name)
	return nil
}

// DeleteVersion removes a single version of a document.
func (s *MemoryStorage) DeleteVersion(ctx context.Context, name string, version int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(ctx); err != nil {
		return err
	}

	versions := s.docs[name]
	for i, doc := range versions {
		if doc.Version != version {
			continue
		}
		delete(s.byID, doc.ID)
		remaining := make([]*StoredDocument, 0, len(versions)-1)
		remaining = append(remaining, versions[:i]...)
		remaining = append(remaining, versions[i+1:]...)
		if len(remaining) == 0 {
			delete(s.docs, name)
		} else {
			s.docs[name] = remaining
		}
		return nil
	}
	return NewStorageVersionNotFoundError(name, version)
}

// List returns documents matching the query.
func (s *MemoryStorage) List(ctx context.Context, query *DocumentQuery) ([]*StoredDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if query == nil {
		query = &DocumentQuery{}
	}

	var results []*StoredDocument
	for name, versions := range s.docs {
		if !matchesName(name, query) || len(versions) == 0 {
			continue
		}
		if !query.IncludeAllVersions {
			versions = versions[:1]
		}
		for _, doc := range versions {
			if matchesDocumentQuery(doc, query) {
				results = append(results, copyStoredDocument(doc))
			}
		}
	}
	return sortAndPage(results, query), nil
}

// Exists checks if a document with the given name exists.
func (s *MemoryStorage) Exists(ctx context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.ready(ctx); err != nil {
		return false, err
	}
	return len(s.docs[name]) > 0, nil
}

// ListVersions returns all version numbers for a document, newest first.
func (s *MemoryStorage) ListVersions(ctx context.Context, name string) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	versions := s.docs[name]
	result := make([]int, len(versions))
	for i, doc := range versions {
		result[i] = doc.Version
	}
	return result, nil
}

// Close marks the storage as closed and drops its contents.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.docs = nil
	s.byID = nil
	return nil
}

package hsml

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DocumentID is a unique identifier for one stored document version
// (e.g. "doc_6ByTSYmGzT2c").
type DocumentID string

// StoredDocument is an HSML source with metadata kept by a storage backend.
type StoredDocument struct {
	// ID is the unique identifier for this version.
	ID DocumentID `json:"id"`

	// Name is the document name used for lookups.
	Name string `json:"name"`

	// Source is the raw HSML source.
	Source string `json:"source"`

	// Version is the version number (1, 2, 3, ...). Higher versions are newer.
	Version int `json:"version"`

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]string `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// CreatedBy identifies who saved this version (optional).
	CreatedBy string `json:"created_by,omitempty"`

	// Tags for categorization and querying.
	Tags []string `json:"tags,omitempty"`
}

// DocumentQuery defines filters for listing documents.
type DocumentQuery struct {
	// Tags filters to documents having ALL specified tags.
	Tags []string

	// CreatedBy filters by creator.
	CreatedBy string

	// NamePrefix filters to names starting with this prefix.
	NamePrefix string

	// NameContains filters to names containing this substring.
	NameContains string

	// Limit is the maximum number of results (0 = no limit).
	Limit int

	// Offset is the number of results to skip.
	Offset int

	// IncludeAllVersions includes all versions, not just the latest.
	IncludeAllVersions bool
}

// DocumentStorage is the interface for pluggable document stores.
// Implementations must be safe for concurrent use.
type DocumentStorage interface {
	// Get retrieves the latest version of a document by name.
	Get(ctx context.Context, name string) (*StoredDocument, error)

	// GetByID retrieves a specific version by ID.
	GetByID(ctx context.Context, id DocumentID) (*StoredDocument, error)

	// GetVersion retrieves a specific version of a document.
	GetVersion(ctx context.Context, name string, version int) (*StoredDocument, error)

	// Save stores a document as a new version. ID, Version, CreatedAt and
	// UpdatedAt are set by the storage and copied back into doc.
	Save(ctx context.Context, doc *StoredDocument) error

	// Delete removes all versions of a document.
	Delete(ctx context.Context, name string) error

	// DeleteVersion removes a single version of a document.
	DeleteVersion(ctx context.Context, name string, version int) error

	// List returns documents matching the query, ordered by name then
	// version descending.
	List(ctx context.Context, query *DocumentQuery) ([]*StoredDocument, error)

	// Exists checks if a document with the given name exists.
	Exists(ctx context.Context, name string) (bool, error)

	// ListVersions returns all version numbers, newest first. Returns an
	// empty slice if the document doesn't exist.
	ListVersions(ctx context.Context, name string) ([]int, error)

	// Close releases any resources held by the storage.
	Close() error
}

// StorageDriver is a factory for creating storage instances.
// Drivers register themselves during init().
type StorageDriver interface {
	// Open creates a storage with a driver-specific connection string.
	Open(connectionString string) (DocumentStorage, error)
}

// Storage driver registry
var (
	storageDriversMu sync.RWMutex
	storageDrivers   = make(map[string]StorageDriver)
)

// RegisterStorageDriver registers a storage driver by name.
// Panics if a driver with the same name is already registered.
func RegisterStorageDriver(name string, driver StorageDriver) {
	storageDriversMu.Lock()
	defer storageDriversMu.Unlock()

	if driver == nil {
		panic(ErrMsgNilStorageDriver)
	}
	if _, exists := storageDrivers[name]; exists {
		panic(ErrMsgDriverAlreadyRegistered + ": " + name)
	}
	storageDrivers[name] = driver
}

// OpenStorage opens a storage connection using the named driver.
//
// Example:
//
//	storage, err := hsml.OpenStorage("memory", "")
//	storage, err := hsml.OpenStorage("filesystem", "/path/to/documents")
//	storage, err := hsml.OpenStorage("postgres", "postgres://localhost/hsml?sslmode=disable")
func OpenStorage(driverName, connectionString string) (DocumentStorage, error) {
	storageDriversMu.RLock()
	driver, ok := storageDrivers[driverName]
	storageDriversMu.RUnlock()

	if !ok {
		return nil, NewStorageDriverNotFoundError(driverName)
	}

	return driver.Open(connectionString)
}

// ListStorageDrivers returns the names of all registered drivers, sorted.
func ListStorageDrivers() []string {
	storageDriversMu.RLock()
	defer storageDriversMu.RUnlock()

	names := make([]string, 0, len(storageDrivers))
	for name := range storageDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Storage error message constants
const (
	ErrMsgNilStorageDriver        = "storage driver is nil"
	ErrMsgDriverAlreadyRegistered = "storage driver already registered"
	ErrMsgStorageDriverNotFound   = "storage driver not found"
	ErrMsgStorageClosed           = "storage is closed"
	ErrMsgVersionNotFound         = "document version not found"
	ErrMsgInvalidDocumentName     = "invalid document name"
	ErrMsgNilDocument             = "document cannot be nil"
)

// documentIDPrefix prefixes generated document IDs
const documentIDPrefix = "doc_"

// StorageError represents a storage-related error.
type StorageError struct {
	Message string
	Name    string
	Version int
	Cause   error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	msg := e.Message
	if e.Name != "" && e.Version > 0 {
		msg += ": " + e.Name + " v" + strconv.Itoa(e.Version)
	} else if e.Name != "" {
		msg += ": " + e.Name
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageDriverNotFoundError creates an error for a missing storage driver.
func NewStorageDriverNotFoundError(name string) error {
	return &StorageError{
		Message: ErrMsgStorageDriverNotFound,
		Name:    name,
	}
}

// NewStorageDocumentNotFoundError creates an error for a missing document.
// The cause carries the not found classification.
func NewStorageDocumentNotFoundError(name string) error {
	return &StorageError{
		Message: ErrMsgDocumentNotFound,
		Name:    name,
		Cause:   NewDocumentNotFoundError(name),
	}
}

// NewStorageVersionNotFoundError creates an error for a missing version.
func NewStorageVersionNotFoundError(name string, version int) error {
	return &StorageError{
		Message: ErrMsgVersionNotFound,
		Name:    name,
		Version: version,
	}
}

// NewStorageClosedError creates an error for operations on closed storage.
func NewStorageClosedError() error {
	return &StorageError{
		Message: ErrMsgStorageClosed,
	}
}

// IsNotFound reports whether err means a document or version does not exist.
func IsNotFound(err error) bool {
	var se *StorageError
	if errors.As(err, &se) {
		return se.Message == ErrMsgDocumentNotFound || se.Message == ErrMsgVersionNotFound
	}
	return false
}

// validateDocumentName rejects names no driver can store.
// validateDocument checks a document passed to Save.
func validateDocument(doc *StoredDocument) error {
	if doc == nil {
		return &StorageError{Message: ErrMsgNilDocument}
	}
	return validateDocumentName(doc.Name)
}

func validateDocumentName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &StorageError{Message: ErrMsgInvalidDocumentName, Name: name}
	}
	return nil
}

// matchesDocumentQuery checks a document against the non-name filters.
func matchesDocumentQuery(doc *StoredDocument, query *DocumentQuery) bool {
	if query.CreatedBy != "" && doc.CreatedBy != query.CreatedBy {
		return false
	}
	for _, tag := range query.Tags {
		if !containsString(doc.Tags, tag) {
			return false
		}
	}
	return true
}

// matchesName checks a document name against the name filters.
func matchesName(name string, query *DocumentQuery) bool {
	if query.NamePrefix != "" && !strings.HasPrefix(name, query.NamePrefix) {
		return false
	}
	if query.NameContains != "" && !strings.Contains(name, query.NameContains) {
		return false
	}
	return true
}

// sortAndPage orders by name then version descending and applies offset/limit.
func sortAndPage(results []*StoredDocument, query *DocumentQuery) []*StoredDocument {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Name != results[j].Name {
			return results[i].Name < results[j].Name
		}
		return results[i].Version > results[j].Version
	})

	if query.Offset > 0 {
		if query.Offset >= len(results) {
			return []*StoredDocument{}
		}
		results = results[query.Offset:]
	}
	if query.Limit > 0 && len(results) > query.Limit {
		results = results[:query.Limit]
	}
	return results
}

// containsString checks if a slice contains a string.
func containsString(slice []string, s string) bool {
	for _, item := range slice {
		if item == s {
			return true
		}
	}
	return false
}

// generateDocumentID generates a unique document ID.
func generateDocumentID() DocumentID {
	b := make([]byte, 12)
	_, _ = rand.Read(b)
	return DocumentID(documentIDPrefix + base64.RawURLEncoding.EncodeToString(b))
}

// copyStoredDocument creates a deep copy of a StoredDocument.
func copyStoredDocument(doc *StoredDocument) *StoredDocument {
	if doc == nil {
		return nil
	}
	return &StoredDocument{
		ID:        doc.ID,
		Name:      doc.Name,
		Source:    doc.Source,
		Version:   doc.Version,
		Metadata:  copyStringMap(doc.Metadata),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
		CreatedBy: doc.CreatedBy,
		Tags:      copyStringSlice(doc.Tags),
	}
}

// copyStringMap creates a copy of a string map.
func copyStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	result := make(map[string]string, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}

// copyStringSlice creates a copy of a string slice.
func copyStringSlice(s []string) []string {
	if s == nil {
		return nil
	}
	result := make([]string, len(s))
	copy(result, s)
	return result
}

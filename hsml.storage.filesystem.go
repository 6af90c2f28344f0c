package hsml

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Filesystem storage constants
const (
	FilesystemDirPermissions  = 0o755
	FilesystemFilePermissions = 0o644
	FilesystemVersionPrefix   = "v"
	FilesystemVersionSuffix   = ".json"

	// filesystemInvalidNameChars cannot appear in a document directory name
	filesystemInvalidNameChars = "/\\:*?\"<>|"
)

// Filesystem storage error messages
const (
	ErrMsgInvalidStorageRoot    = "storage root directory cannot be empty"
	ErrMsgCreateStorageDir      = "failed to create storage directory"
	ErrMsgReadStorageDir        = "failed to read storage directory"
	ErrMsgMarshalDocument       = "failed to marshal document"
	ErrMsgUnmarshalDocument     = "failed to unmarshal document"
	ErrMsgWriteDocument         = "failed to write document file"
	ErrMsgReadDocument          = "failed to read document file"
	ErrMsgDeleteDocument        = "failed to delete document"
	ErrMsgPathTraversalDetected = "path traversal detected in document name"
)

// FilesystemStorage keeps each document version as a JSON file.
//
// Directory structure:
//
//	<root>/
//	  <document-name>/
//	    v1.json
//	    v2.json
type FilesystemStorage struct {
	mu     sync.RWMutex
	root   string
	closed bool
}

// FilesystemStorageDriver opens FilesystemStorage instances.
type FilesystemStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverFilesystem, &FilesystemStorageDriver{})
}

// Open creates a FilesystemStorage. The connection string is the root directory.
func (d *FilesystemStorageDriver) Open(connectionString string) (DocumentStorage, error) {
	return NewFilesystemStorage(connectionString)
}

// NewFilesystemStorage creates a filesystem store, creating root if needed.
func NewFilesystemStorage(root string) (*FilesystemStorage, error) {
	if root == "" {
		return nil, &StorageError{Message: ErrMsgInvalidStorageRoot}
	}
	if err := os.MkdirAll(root, FilesystemDirPermissions); err != nil {
		return nil, &StorageError{Message: ErrMsgCreateStorageDir, Name: root, Cause: err}
	}
	return &FilesystemStorage{root: root}, nil
}

// Root returns the storage root directory.
func (s *FilesystemStorage) Root() string {
	return s.root
}

// Get retrieves the latest version of a document by name.
func (s *FilesystemStorage) Get(ctx context.Context, name string) (*StoredDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateNameForFilesystem(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	versions, err := s.listVersionsInternal(name)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, NewStorageDocumentNotFoundError(name)
	}
	return s.loadDocument(name, versions[0])
}

// GetByID scans every document for the version with the given ID.
func (s *FilesystemStorage) GetByID(ctx context.Context, id DocumentID) (*StoredDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	names, err := s.listNamesInternal()
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		versions, err := s.listVersionsInternal(name)
		if err != nil {
			continue
		}
		for _, version := range versions {
			doc, err := s.loadDocument(name, version)
			if err != nil {
				continue
			}
			if doc.ID == id {
				return doc, nil
			}
		}
	}
	return nil, NewStorageDocumentNotFoundError(string(id))
}

// GetVersion retrieves a specific version of a document.
func (s *FilesystemStorage) GetVersion(ctx context.Context, name string, version int) (*StoredDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateNameForFilesystem(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}
	return s.loadDocument(name, version)
}

// Save writes doc as the next version file of its name.
func (s *FilesystemStorage) Save(ctx context.Context, doc *StoredDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc == nil {
		return &StorageError{Message: ErrMsgNilDocument}
	}
	if err := validateNameForFilesystem(doc.Name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	docDir := filepath.Join(s.root, doc.Name)
	if err := os.MkdirAll(docDir, FilesystemDirPermissions); err != nil {
		return &StorageError{Message: ErrMsgCreateStorageDir, Name: docDir, Cause: err}
	}

	versions, err := s.listVersionsInternal(doc.Name)
	if err != nil {
		return err
	}
	nextVersion := 1
	if len(versions) > 0 {
		nextVersion = versions[0] + 1
	}

	now := time.Now()
	stored := copyStoredDocument(doc)
	stored.ID = generateDocumentID()
	stored.Version = nextVersion
	stored.CreatedAt = now
	stored.UpdatedAt = now

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return &StorageError{Message: ErrMsgMarshalDocument, Name: doc.Name, Cause: err}
	}
	filename := s.versionPath(doc.Name, nextVersion)
	if err := os.WriteFile(filename, data, FilesystemFilePermissions); err != nil {
		return &StorageError{Message: ErrMsgWriteDocument, Name: filename, Cause: err}
	}

	doc.ID = stored.ID
	doc.Version = stored.Version
	doc.CreatedAt = stored.CreatedAt
	doc.UpdatedAt = stored.UpdatedAt
	return nil
}

// Delete removes the document directory with all its versions.
func (s *FilesystemStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateNameForFilesystem(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	docDir := filepath.Join(s.root, name)
	if _, err := os.Stat(docDir); errors.Is(err, fs.ErrNotExist) {
		return NewStorageDocumentNotFoundError(name)
	}
	if err := os.RemoveAll(docDir); err != nil {
		return &StorageError{Message: ErrMsgDeleteDocument, Name: name, Cause: err}
	}
	return nil
}

// DeleteVersion removes one version file. The directory goes with the last one.
func (s *FilesystemStorage) DeleteVersion(ctx context.Context, name string, version int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateNameForFilesystem(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	filename := s.versionPath(name, version)
	if err := os.Remove(filename); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewStorageVersionNotFoundError(name, version)
		}
		return &StorageError{Message: ErrMsgDeleteDocument, Name: filename, Cause: err}
	}

	remaining, err := s.listVersionsInternal(name)
	if err == nil && len(remaining) == 0 {
		_ = os.Remove(filepath.Join(s.root, name))
	}
	return nil
}

// List returns documents matching the query.
func (s *FilesystemStorage) List(ctx context.Context, query *DocumentQuery) ([]*StoredDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}
	if query == nil {
		query = &DocumentQuery{}
	}

	names, err := s.listNamesInternal()
	if err != nil {
		return nil, err
	}

	var results []*StoredDocument
	for _, name := range names {
		if !matchesName(name, query) {
			continue
		}
		versions, err := s.listVersionsInternal(name)
		if err != nil || len(versions) == 0 {
			continue
		}
		if !query.IncludeAllVersions {
			versions = versions[:1]
		}
		for _, version := range versions {
			doc, err := s.loadDocument(name, version)
			if err != nil {
				continue
			}
			if matchesDocumentQuery(doc, query) {
				results = append(results, doc)
			}
		}
	}
	return sortAndPage(results, query), nil
}

// Exists checks if a document with the given name exists.
func (s *FilesystemStorage) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := validateNameForFilesystem(name); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStorageClosedError()
	}

	versions, err := s.listVersionsInternal(name)
	if err != nil {
		return false, err
	}
	return len(versions) > 0, nil
}

// ListVersions returns all version numbers for a document, newest first.
func (s *FilesystemStorage) ListVersions(ctx context.Context, name string) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateNameForFilesystem(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}
	return s.listVersionsInternal(name)
}

// Close marks the storage as closed. Files stay on disk.
func (s *FilesystemStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

func (s *FilesystemStorage) versionPath(name string, version int) string {
	return filepath.Join(s.root, name, FilesystemVersionPrefix+strconv.Itoa(version)+FilesystemVersionSuffix)
}

// listNamesInternal lists document directories (no locking).
func (s *FilesystemStorage) listNamesInternal() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, &StorageError{Message: ErrMsgReadStorageDir, Name: s.root, Cause: err}
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// listVersionsInternal lists version numbers for a document, newest first
// (no locking).
func (s *FilesystemStorage) listVersionsInternal(name string) ([]int, error) {
	docDir := filepath.Join(s.root, name)
	entries, err := os.ReadDir(docDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []int{}, nil
		}
		return nil, &StorageError{Message: ErrMsgReadStorageDir, Name: docDir, Cause: err}
	}

	versions := []int{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if version := parseVersionFilename(entry.Name()); version > 0 {
			versions = append(versions, version)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(versions)))
	return versions, nil
}

// loadDocument reads one version file (no locking).
func (s *FilesystemStorage) loadDocument(name string, version int) (*StoredDocument, error) {
	filename := s.versionPath(name, version)
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewStorageVersionNotFoundError(name, version)
		}
		return nil, &StorageError{Message: ErrMsgReadDocument, Name: filename, Cause: err}
	}

	var doc StoredDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &StorageError{Message: ErrMsgUnmarshalDocument, Name: filename, Cause: err}
	}
	return &doc, nil
}

// parseVersionFilename returns the version of a "v<N>.json" file name, or 0.
func parseVersionFilename(filename string) int {
	if !strings.HasPrefix(filename, FilesystemVersionPrefix) || !strings.HasSuffix(filename, FilesystemVersionSuffix) {
		return 0
	}
	digits := filename[len(FilesystemVersionPrefix) : len(filename)-len(FilesystemVersionSuffix)]
	if digits == "" || strings.ContainsAny(digits, "+-") {
		return 0
	}
	version, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return version
}

// validateNameForFilesystem keeps document names inside the storage root.
func validateNameForFilesystem(name string) error {
	if err := validateDocumentName(name); err != nil {
		return err
	}
	if strings.Contains(name, "..") {
		return &StorageError{Message: ErrMsgPathTraversalDetected, Name: name}
	}
	if strings.ContainsAny(name, filesystemInvalidNameChars) {
		return &StorageError{Message: ErrMsgInvalidDocumentName, Name: name}
	}
	return nil
}

package hsml

import "time"

// File extension defaults
const (
	DefaultSourceExtension = ".hsml"
	DefaultOutputExtension = ".html"
)

// Engine limits
const (
	// DefaultMaxDepth bounds tag nesting so hostile input cannot exhaust the stack
	DefaultMaxDepth = 256
	// DefaultMaxSourceSize is the largest accepted source in bytes (0 disables the check)
	DefaultMaxSourceSize = 8 << 20
)

// Batch runner defaults
const (
	DefaultConcurrency = 4
	DefaultFileMode    = 0o644
	DefaultDirMode     = 0o755
)

// Result cache defaults
const (
	DefaultResultCacheTTL        = 5 * time.Minute
	DefaultResultCacheMaxEntries = 1000
	DefaultResultCacheMaxSize    = 1 << 20
)

// Result cache key scope
const (
	cacheScopeDepthPrefix = "depth="
	cacheScopeSeparator   = ":"
)

// Storage cache defaults
const (
	DefaultStorageCacheTTL         = 5 * time.Minute
	DefaultStorageCacheMaxEntries  = 1000
	DefaultStorageCacheNegativeTTL = 30 * time.Second
)

// Storage driver names
const (
	StorageDriverMemory     = "memory"
	StorageDriverFilesystem = "filesystem"
	StorageDriverPostgres   = "postgres"
)

// Project config defaults
const (
	DefaultConfigFileName = "hsml.yaml"
	DefaultLogLevel       = "info"
)

// Export formats for the AST
const (
	ExportFormatJSON = "json"
	ExportFormatYAML = "yaml"
)

// Log message constants
const (
	LogMsgEngineCreated    = "engine created"
	LogMsgCompileStart     = "compiling source"
	LogMsgCompileDone      = "compile complete"
	LogMsgCacheHit         = "result cache hit"
	LogMsgCacheMiss        = "result cache miss"
	LogMsgBatchStart       = "batch compile started"
	LogMsgBatchDone        = "batch compile finished"
	LogMsgFileCompiled     = "file compiled"
	LogMsgFileSkipped      = "file skipped"
	LogMsgStoredCompile    = "compiling stored document"
	LogMsgMigrationApplied = "migration applied"
	LogMsgConfigLoaded     = "project config loaded"
)

// Log field constants
const (
	LogFieldSourceLen = "source_length"
	LogFieldOutputLen = "output_length"
	LogFieldMaxDepth  = "max_depth"
	LogFieldPath      = "path"
	LogFieldOutput    = "output"
	LogFieldKind      = "kind"
	LogFieldLine      = "line"
	LogFieldColumn    = "column"
	LogFieldCompiled  = "compiled"
	LogFieldFailed    = "failed"
	LogFieldWorkers   = "workers"
	LogFieldName      = "name"
	LogFieldVersion   = "version"
	LogFieldDuration  = "duration"
	LogFieldError     = "error"
)

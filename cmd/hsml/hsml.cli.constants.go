package main

// Command names
const (
	CmdNameCompile = "compile"
	CmdNameParse   = "parse"
	CmdNameCheck   = "check"
	CmdNameStore   = "store"
	CmdNameSave    = "save"
	CmdNameList    = "list"
	CmdNameVersion = "version"
)

// Flag names - long form
const (
	FlagConfig    = "config"
	FlagOutput    = "output"
	FlagVerbose   = "verbose"
	FlagFormat    = "format"
	FlagDriver    = "driver"
	FlagDSN       = "dsn"
	FlagTag       = "tag"
	FlagCreatedBy = "created-by"
	FlagVersion   = "version"
	FlagPrefix    = "prefix"
	FlagAll       = "all"
)

// Flag names - short form
const (
	FlagOutputShort  = "o"
	FlagVerboseShort = "v"
	FlagFormatShort  = "F"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

// Exit codes
const (
	ExitCodeSuccess      = 0
	ExitCodeError        = 1
	ExitCodeUsageError   = 2
	ExitCodeParseFailure = 3
	ExitCodeInputError   = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
	OutputStdout     = "-"
)

// Error messages - ALL must be constants
const (
	ErrMsgReadStdinFailed   = "failed to read from stdin"
	ErrMsgReadFileFailed    = "failed to read file"
	ErrMsgStatFailed        = "failed to access path"
	ErrMsgWriteOutputFailed = "failed to write output"
	ErrMsgInvalidFormat     = "invalid output format"
	ErrMsgLoggerFailed      = "failed to build logger"
	ErrMsgStoreOpenFailed   = "failed to open document store"
	ErrMsgStoreSaveFailed   = "failed to save document"
	ErrMsgStoreLoadFailed   = "failed to load document"
	ErrMsgStoreListFailed   = "failed to list documents"
	ErrMsgFilesFailed       = "file(s) failed to parse"
	ErrMsgDirOutputStdout   = "directory output cannot be stdout"
)

// Warning messages
const (
	WarnMsgMemoryStore = "memory store is not persisted; use --driver filesystem --dsn <dir> to keep documents"
)

// Help text
const (
	HelpRootShort    = "Compile HSML markup to HTML"
	HelpRootLong     = "hsml compiles indentation-based HSML documents to HTML, prints their syntax tree and manages stored documents."
	HelpCompileShort = "Compile a file, a directory tree or stdin"
	HelpParseShort   = "Print the syntax tree of a document"
	HelpCheckShort   = "Parse documents and report every failure"
	HelpStoreShort   = "Work with a document store"
	HelpSaveShort    = "Save a new version of a document"
	HelpStoreCompile = "Compile a stored document"
	HelpListShort    = "List stored documents"
	HelpVersionShort = "Show version information"

	HelpFlagConfig    = "project config file"
	HelpFlagOutput    = "output file or directory (\"-\" for stdout)"
	HelpFlagVerbose   = "development logging at debug level"
	HelpFlagFormat    = "output format"
	HelpFlagDriver    = "storage driver (memory, filesystem, postgres)"
	HelpFlagDSN       = "storage connection string or root directory"
	HelpFlagTag       = "document tag (repeatable)"
	HelpFlagCreatedBy = "document author"
	HelpFlagVersion   = "document version (0 for latest)"
	HelpFlagPrefix    = "name prefix filter"
	HelpFlagAll       = "include every version"
)

// Version output
const (
	VersionTextTemplate = "go-hsml version %s\nCommit: %s\nBranch: %s\nBuilt: %s\nGo: %s"
	VersionUnknown      = "unknown"
	VersionsFileName    = "versions.yaml"
)

// CLI metadata
const (
	CLIName = "hsml"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithCause = "%s: %v\n"
	FmtWarning        = "%s: warning: %s\n"
	FmtFailure        = "%s:%d:%d: %s\n"
	FmtCompiled       = "%s -> %s\n"
	FmtCheckSummary   = "%d file(s) checked, %d failed\n"
	FmtCompileSummary = "%d file(s) compiled, %d failed\n"
	FmtSaved          = "saved %s v%d (%s)\n"
	FmtListRow        = "%s\tv%d\t%s\t%s\n"
	FmtNewline        = "\n"
	FmtStdinName      = "<stdin>"
)

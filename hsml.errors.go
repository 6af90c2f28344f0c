package hsml

import (
	"errors"
	"strconv"
	"unicode/utf8"

	"github.com/itsatony/go-cuserr"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	// Parse errors
	ErrMsgParseFailed     = "hsml parsing failed"
	ErrMsgSourceTooLarge  = "source exceeds maximum size"
	ErrMsgInvalidMaxDepth = "max depth must not be negative"

	// Batch errors
	ErrMsgReadFailed         = "failed to read source file"
	ErrMsgWriteFailed        = "failed to write output file"
	ErrMsgWalkFailed         = "failed to walk source directory"
	ErrMsgUnsupportedFile    = "file does not have the source extension"
	ErrMsgEmptyPath          = "path cannot be empty"
	ErrMsgInvalidConcurrency = "concurrency must be positive"

	// Config errors
	ErrMsgConfigRead    = "failed to read project config"
	ErrMsgConfigParse   = "failed to parse project config"
	ErrMsgConfigInvalid = "invalid project config"
	ErrMsgInvalidExt    = "extension must start with a dot"
	ErrMsgSameExt       = "source and output extensions must differ"

	// Export errors
	ErrMsgUnknownFormat = "unknown export format"
	ErrMsgExportFailed  = "failed to export AST"

	// Document errors
	ErrMsgDocumentNotFound = "document not found"
)

// Error code constants for categorization
const (
	ErrCodeParse      = "HSML_PARSE"
	ErrCodeValidation = "HSML_VALIDATION"
	ErrCodeIO         = "HSML_IO"
	ErrCodeConfig     = "HSML_CONFIG"
	ErrCodeExport     = "HSML_EXPORT"
	ErrCodeStorage    = "HSML_STORAGE"
)

// Metadata keys attached to errors
const (
	MetaKeyLine      = "line"
	MetaKeyColumn    = "column"
	MetaKeyOffset    = "offset"
	MetaKeyKind      = "kind"
	MetaKeyRemaining = "remaining"
	MetaKeyPath      = "path"
	MetaKeyName      = "name"
	MetaKeyDocument  = "document"
	MetaKeySize      = "size"
	MetaKeyMaxSize   = "max_size"
	MetaKeyFormat    = "format"
	MetaKeyReason    = "reason"
	MetaKeyValue     = "value"
)

// remainingPreviewLength caps the remaining-input metadata value
const remainingPreviewLength = 40

// NewParseError creates a parse error with position context
func NewParseError(msg string, pos Position, cause error) error {
	return newParseError(msg, pos, cause)
}

func newParseError(msg string, pos Position, cause error) *cuserr.CustomError {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeParse, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeParse, msg)
	}
	return err.
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(pos.Offset))
}

// NewParseFailureError wraps a parser failure, carrying its kind, position
// and a preview of the remaining input as metadata.
func NewParseFailureError(failure *ParseFailure) error {
	remaining := failure.Remaining
	if len(remaining) > remainingPreviewLength {
		cut := remainingPreviewLength
		for cut > 0 && !utf8.RuneStart(remaining[cut]) {
			cut--
		}
		remaining = remaining[:cut]
	}
	return newParseError(ErrMsgParseFailed, failure.Position, failure).
		WithMetadata(MetaKeyKind, string(failure.Kind)).
		WithMetadata(MetaKeyRemaining, remaining)
}

// NewSourceTooLargeError creates an error for sources over the size limit
func NewSourceTooLargeError(size, max int) error {
	return cuserr.NewValidationError(ErrCodeValidation, ErrMsgSourceTooLarge).
		WithMetadata(MetaKeySize, strconv.Itoa(size)).
		WithMetadata(MetaKeyMaxSize, strconv.Itoa(max))
}

// NewIOError wraps a filesystem failure with the path involved
func NewIOError(msg, path string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeIO, msg).
		WithMetadata(MetaKeyPath, path)
}

// NewInvalidPathError creates an error for a path the batch runner rejects
func NewInvalidPathError(msg, path string) error {
	return cuserr.NewValidationError(ErrCodeValidation, msg).
		WithMetadata(MetaKeyPath, path)
}

// NewConfigError creates a project config error
func NewConfigError(msg, path string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeConfig, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeConfig, msg)
	}
	return err.WithMetadata(MetaKeyPath, path)
}

// NewConfigValueError creates an error for a single invalid config value
func NewConfigValueError(reason, value string) error {
	return cuserr.NewValidationError(ErrCodeConfig, ErrMsgConfigInvalid).
		WithMetadata(MetaKeyReason, reason).
		WithMetadata(MetaKeyValue, value)
}

// NewUnknownFormatError creates an error for an unsupported export format
func NewUnknownFormatError(format string) error {
	return cuserr.NewValidationError(ErrCodeExport, ErrMsgUnknownFormat).
		WithMetadata(MetaKeyFormat, format)
}

// NewExportError wraps an encoder failure
func NewExportError(format string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeExport, ErrMsgExportFailed).
		WithMetadata(MetaKeyFormat, format)
}

// NewDocumentNotFoundError creates a not found error for a stored document
func NewDocumentNotFoundError(name string) error {
	return cuserr.NewNotFoundError(MetaKeyDocument, ErrMsgDocumentNotFound).
		WithMetadata(MetaKeyName, name)
}

// AsParseFailure extracts the parser failure from err, if any
func AsParseFailure(err error) (*ParseFailure, bool) {
	var failure *ParseFailure
	if errors.As(err, &failure) {
		return failure, true
	}
	return nil, false
}

// ParseFailureKind returns the failure kind carried by err, if any
func ParseFailureKind(err error) (ErrorKind, bool) {
	failure, ok := AsParseFailure(err)
	if !ok {
		return "", false
	}
	return failure.Kind, true
}

// IsParseFailure reports whether err is or wraps a parser failure
func IsParseFailure(err error) bool {
	_, ok := AsParseFailure(err)
	return ok
}

package hsml

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/itsatony/go-cuserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metadata(t *testing.T, err error, key string) string {
	t.Helper()
	var customErr *cuserr.CustomError
	require.True(t, errors.As(err, &customErr), "expected a *cuserr.CustomError, got %T", err)
	value, ok := customErr.GetMetadata(key)
	require.True(t, ok, "missing metadata %q", key)
	return value
}

func TestNewParseError(t *testing.T) {
	t.Run("with cause error", func(t *testing.T) {
		pos := Position{Line: 5, Column: 10, Offset: 50}
		cause := errors.New("underlying parse issue")
		err := NewParseError(ErrMsgParseFailed, pos, cause)

		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgParseFailed)
		assert.Equal(t, strconv.Itoa(pos.Line), metadata(t, err, MetaKeyLine))
		assert.Equal(t, strconv.Itoa(pos.Column), metadata(t, err, MetaKeyColumn))
		assert.Equal(t, strconv.Itoa(pos.Offset), metadata(t, err, MetaKeyOffset))
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("without cause error", func(t *testing.T) {
		err := NewParseError(ErrMsgParseFailed, Position{Line: 1, Column: 1}, nil)
		require.Error(t, err)
		assert.Equal(t, "1", metadata(t, err, MetaKeyLine))
	})
}

func TestNewParseFailureError(t *testing.T) {
	failure := &ParseFailure{
		Kind:      ErrorKindDuplicateId,
		Remaining: "#b " + strings.Repeat("x", 60),
		Position:  Position{Offset: 3, Line: 1, Column: 4},
	}
	err := NewParseFailureError(failure)

	assert.Equal(t, string(ErrorKindDuplicateId), metadata(t, err, MetaKeyKind))
	assert.Equal(t, "1", metadata(t, err, MetaKeyLine))
	assert.Equal(t, "4", metadata(t, err, MetaKeyColumn))
	assert.Equal(t, "3", metadata(t, err, MetaKeyOffset))
	assert.Len(t, metadata(t, err, MetaKeyRemaining), remainingPreviewLength)

	got, ok := AsParseFailure(err)
	require.True(t, ok)
	assert.Same(t, failure, got)

	kind, ok := ParseFailureKind(fmt.Errorf("wrapped: %w", err))
	require.True(t, ok)
	assert.Equal(t, ErrorKindDuplicateId, kind)
	assert.True(t, IsParseFailure(err))
}

func TestNewParseFailureError_RemainingKeepsRunesWhole(t *testing.T) {
	failure := &ParseFailure{
		Kind:      ErrorKindMalformedTagName,
		Remaining: strings.Repeat("x", remainingPreviewLength-1) + "éééé",
	}

	remaining := metadata(t, NewParseFailureError(failure), MetaKeyRemaining)

	assert.True(t, utf8.ValidString(remaining))
	assert.Equal(t, strings.Repeat("x", remainingPreviewLength-1), remaining)
}

func TestParseFailureHelpers_NonParseErrors(t *testing.T) {
	for _, err := range []error{
		nil,
		errors.New("plain"),
		NewSourceTooLargeError(10, 5),
	} {
		_, ok := AsParseFailure(err)
		assert.False(t, ok)
		_, ok = ParseFailureKind(err)
		assert.False(t, ok)
		assert.False(t, IsParseFailure(err))
	}
}

func TestErrorConstructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name    string
		err     error
		message string
		meta    map[string]string
		cause   error
	}{
		{
			name:    "source too large",
			err:     NewSourceTooLargeError(10, 5),
			message: ErrMsgSourceTooLarge,
			meta:    map[string]string{MetaKeySize: "10", MetaKeyMaxSize: "5"},
		},
		{
			name:    "io",
			err:     NewIOError(ErrMsgReadFailed, "a.hsml", cause),
			message: ErrMsgReadFailed,
			meta:    map[string]string{MetaKeyPath: "a.hsml"},
			cause:   cause,
		},
		{
			name:    "invalid path",
			err:     NewInvalidPathError(ErrMsgUnsupportedFile, "a.txt"),
			message: ErrMsgUnsupportedFile,
			meta:    map[string]string{MetaKeyPath: "a.txt"},
		},
		{
			name:    "config with cause",
			err:     NewConfigError(ErrMsgConfigParse, "hsml.yaml", cause),
			message: ErrMsgConfigParse,
			meta:    map[string]string{MetaKeyPath: "hsml.yaml"},
			cause:   cause,
		},
		{
			name:    "config without cause",
			err:     NewConfigError(ErrMsgConfigInvalid, "hsml.yaml", nil),
			message: ErrMsgConfigInvalid,
			meta:    map[string]string{MetaKeyPath: "hsml.yaml"},
		},
		{
			name:    "config value",
			err:     NewConfigValueError(ErrMsgInvalidExt, "html"),
			message: ErrMsgConfigInvalid,
			meta:    map[string]string{MetaKeyReason: ErrMsgInvalidExt, MetaKeyValue: "html"},
		},
		{
			name:    "unknown format",
			err:     NewUnknownFormatError("xml"),
			message: ErrMsgUnknownFormat,
			meta:    map[string]string{MetaKeyFormat: "xml"},
		},
		{
			name:    "export",
			err:     NewExportError(ExportFormatYAML, cause),
			message: ErrMsgExportFailed,
			meta:    map[string]string{MetaKeyFormat: ExportFormatYAML},
			cause:   cause,
		},
		{
			name:    "document not found",
			err:     NewDocumentNotFoundError("landing"),
			message: ErrMsgDocumentNotFound,
			meta:    map[string]string{MetaKeyName: "landing"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.err)
			assert.Contains(t, tt.err.Error(), tt.message)
			for key, want := range tt.meta {
				assert.Equal(t, want, metadata(t, tt.err, key), key)
			}
			if tt.cause != nil {
				assert.ErrorIs(t, tt.err, tt.cause)
			}
		})
	}
}

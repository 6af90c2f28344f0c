package internal

import (
	"fmt"
)

// Position represents a location in the source document
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// ErrorKind classifies structural parse failures
type ErrorKind string

// Parse failure kinds
const (
	ErrorKindMalformedTagName         ErrorKind = "MalformedTagName"
	ErrorKindDuplicateId              ErrorKind = "DuplicateId"
	ErrorKindInconsistentIndentation  ErrorKind = "InconsistentIndentation"
	ErrorKindUnterminatedQuotedValue  ErrorKind = "UnterminatedQuotedValue"
	ErrorKindUnterminatedClassBracket ErrorKind = "UnterminatedClassBracket"
	ErrorKindUnexpectedEndOfInput     ErrorKind = "UnexpectedEndOfInput"
	ErrorKindMalformedSelector        ErrorKind = "MalformedSelector"
	ErrorKindMalformedAttribute       ErrorKind = "MalformedAttribute"
	ErrorKindMaxDepthExceeded         ErrorKind = "MaxDepthExceeded"
)

// Parse failure messages, one per kind
const (
	ErrMsgMalformedTagName         = "malformed tag name"
	ErrMsgDuplicateId              = "tag already has an id"
	ErrMsgInconsistentIndentation  = "inconsistent indentation"
	ErrMsgUnterminatedQuotedValue  = "unterminated quoted attribute value"
	ErrMsgUnterminatedClassBracket = "unterminated class bracket"
	ErrMsgUnexpectedEndOfInput     = "unexpected end of input"
	ErrMsgMalformedSelector        = "empty class or id"
	ErrMsgMalformedAttribute       = "malformed attribute"
	ErrMsgMaxDepthExceeded         = "maximum nesting depth exceeded"
	ErrMsgUnknownKind              = "parse failure"
)

// ErrFmtWithPosition formats a failure message with its position
const ErrFmtWithPosition = "%s at %s"

// Message returns the human-readable message for the kind
func (k ErrorKind) Message() string {
	switch k {
	case ErrorKindMalformedTagName:
		return ErrMsgMalformedTagName
	case ErrorKindDuplicateId:
		return ErrMsgDuplicateId
	case ErrorKindInconsistentIndentation:
		return ErrMsgInconsistentIndentation
	case ErrorKindUnterminatedQuotedValue:
		return ErrMsgUnterminatedQuotedValue
	case ErrorKindUnterminatedClassBracket:
		return ErrMsgUnterminatedClassBracket
	case ErrorKindUnexpectedEndOfInput:
		return ErrMsgUnexpectedEndOfInput
	case ErrorKindMalformedSelector:
		return ErrMsgMalformedSelector
	case ErrorKindMalformedAttribute:
		return ErrMsgMalformedAttribute
	case ErrorKindMaxDepthExceeded:
		return ErrMsgMaxDepthExceeded
	default:
		return ErrMsgUnknownKind
	}
}

// ParseError is a structural parse failure. Remaining holds the unconsumed
// input starting where the failure was detected.
type ParseError struct {
	Kind      ErrorKind
	Remaining string
	Position  Position
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf(ErrFmtWithPosition, e.Kind.Message(), e.Position.String())
}

// calculatePosition calculates the Position (line, column, offset) for a given prefix string.
func calculatePosition(prefix string) Position {
	pos := Position{
		Offset: len(prefix),
		Line:   1,
		Column: 1,
	}

	for i := 0; i < len(prefix); i++ {
		if prefix[i] == CharLF {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}

	return pos
}

package hsml

import (
	"github.com/itsatony/go-hsml/internal"
)

// AST node types. They are produced by the parser and must not be mutated
// once built.
type (
	Node          = internal.Node
	NodeKind      = internal.NodeKind
	RootNode      = internal.RootNode
	TagNode       = internal.TagNode
	ClassNode     = internal.ClassNode
	IdNode        = internal.IdNode
	AttributeNode = internal.AttributeNode
	TextNode      = internal.TextNode
	CommentNode   = internal.CommentNode
)

// Node kinds
const (
	NodeKindRoot      = internal.NodeKindRoot
	NodeKindTag       = internal.NodeKindTag
	NodeKindComment   = internal.NodeKindComment
	NodeKindClass     = internal.NodeKindClass
	NodeKindId        = internal.NodeKindId
	NodeKindAttribute = internal.NodeKindAttribute
	NodeKindText      = internal.NodeKindText
)

// CompileOptions configures the compiler. It has no recognized fields yet.
type CompileOptions = internal.CompileOptions

// Position is a location in the source document
type Position = internal.Position

// ParseFailure is the structural failure reported by the parser. It is
// reachable with errors.As from any error returned by Engine.Parse.
type ParseFailure = internal.ParseError

// ErrorKind classifies a ParseFailure
type ErrorKind = internal.ErrorKind

// Parse failure kinds
const (
	ErrorKindMalformedTagName         = internal.ErrorKindMalformedTagName
	ErrorKindDuplicateId              = internal.ErrorKindDuplicateId
	ErrorKindInconsistentIndentation  = internal.ErrorKindInconsistentIndentation
	ErrorKindUnterminatedQuotedValue  = internal.ErrorKindUnterminatedQuotedValue
	ErrorKindUnterminatedClassBracket = internal.ErrorKindUnterminatedClassBracket
	ErrorKindUnexpectedEndOfInput     = internal.ErrorKindUnexpectedEndOfInput
	ErrorKindMalformedSelector        = internal.ErrorKindMalformedSelector
	ErrorKindMalformedAttribute       = internal.ErrorKindMalformedAttribute
	ErrorKindMaxDepthExceeded         = internal.ErrorKindMaxDepthExceeded
)

// StringPtr returns a pointer to s, for building attribute values by hand
func StringPtr(s string) *string {
	return internal.StringPtr(s)
}

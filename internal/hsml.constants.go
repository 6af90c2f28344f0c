package internal

// NodeKind identifies AST node kinds
type NodeKind int

// Node kind constants
const (
	NodeKindRoot NodeKind = iota
	NodeKindTag
	NodeKindComment
	NodeKindClass
	NodeKindId
	NodeKindAttribute
	NodeKindText
)

// Node kind string names, also used as the "type" discriminator in exports
const (
	NodeKindNameRoot      = "root"
	NodeKindNameTag       = "tag"
	NodeKindNameComment   = "comment"
	NodeKindNameClass     = "class"
	NodeKindNameId        = "id"
	NodeKindNameAttribute = "attribute"
	NodeKindNameText      = "text"
	NodeKindNameUnknown   = "unknown"
)

// String returns the string representation of the node kind
func (k NodeKind) String() string {
	switch k {
	case NodeKindRoot:
		return NodeKindNameRoot
	case NodeKindTag:
		return NodeKindNameTag
	case NodeKindComment:
		return NodeKindNameComment
	case NodeKindClass:
		return NodeKindNameClass
	case NodeKindId:
		return NodeKindNameId
	case NodeKindAttribute:
		return NodeKindNameAttribute
	case NodeKindText:
		return NodeKindNameText
	default:
		return NodeKindNameUnknown
	}
}

// Syntax markers
const (
	MarkerNativeComment = "//!"
	MarkerDevComment    = "//"
	MarkerCRLF          = "\r\n"
	MarkerLF            = "\n"

	CharClass        = '.'
	CharId           = '#'
	CharAttrOpen     = '('
	CharAttrClose    = ')'
	CharAttrAssign   = '='
	CharAttrSep      = ','
	CharBracketOpen  = '['
	CharBracketClose = ']'
	CharEscape       = '\\'
	CharDoubleQuote  = '"'
	CharSingleQuote  = '\''
	CharSpace        = ' '
	CharTab          = '\t'
	CharCR           = '\r'
	CharLF           = '\n'
	CharHyphen       = '-'
)

// DefaultTagName is used when a line starts with a class or id shorthand
const DefaultTagName = "div"

// Parser limits
const (
	DefaultMaxDepth = 256
)

// String constants
const (
	StringValueEmpty = ""
	ClassSeparator   = " "
)

// Display limits for String() output
const (
	MaxStringDisplayLength = 50
	TruncatedStringLength  = 47
	TruncationSuffix       = "..."
)

// Compiler output fragments
const (
	HTMLTagOpen       = "<"
	HTMLTagClose      = ">"
	HTMLSelfClose     = "/>"
	HTMLEndTagOpen    = "</"
	HTMLCommentOpen   = "<!--"
	HTMLCommentClose  = "-->"
	HTMLAttrId        = " id=\""
	HTMLAttrClass     = " class=\""
	HTMLAttrValueOpen = "=\""
	HTMLAttrQuote     = "\""
	HTMLAttrSpace     = " "
)

// Log message constants
const (
	LogMsgParserCreated   = "parser created"
	LogMsgParserStart     = "starting parse"
	LogMsgParserEnd       = "parse complete"
	LogMsgParserFailed    = "parse failed"
	LogMsgIndentUnitFound = "indentation unit established"
)

// Log field constants
const (
	LogFieldSourceLen = "source_length"
	LogFieldNodes     = "nodes"
	LogFieldKind      = "kind"
	LogFieldLine      = "line"
	LogFieldColumn    = "column"
	LogFieldUnitLen   = "unit_length"
)

// Panic messages for structurally impossible trees
const (
	PanicMsgInvalidChild     = "hsml: invalid node kind in child position: "
	PanicMsgInvalidAttribute = "hsml: invalid node kind in attribute position: "
)

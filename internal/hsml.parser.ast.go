package internal

import (
	"fmt"
	"strings"
)

// Node is the interface all AST nodes implement
type Node interface {
	// Kind returns the node kind identifier
	Kind() NodeKind
	// String returns a human-readable representation
	String() string
}

// RootNode is the top-level container for an AST. Nodes holds only
// *TagNode and *CommentNode values.
type RootNode struct {
	Nodes []Node
}

// Kind returns NodeKindRoot
func (n *RootNode) Kind() NodeKind {
	return NodeKindRoot
}

// String returns a string representation of the root node
func (n *RootNode) String() string {
	var sb strings.Builder
	sb.WriteString("RootNode{\n")
	for i, child := range n.Nodes {
		sb.WriteString(fmt.Sprintf("  [%d] %s\n", i, child.String()))
	}
	sb.WriteString("}")
	return sb.String()
}

// TagNode is a markup element. Absent sequences are nil, never empty.
type TagNode struct {
	Tag     string
	ID      *IdNode
	Classes []*ClassNode
	// Attributes holds *AttributeNode and *CommentNode values in source order
	Attributes []Node
	Text       *TextNode
	// Children holds *TagNode and *CommentNode values in source order
	Children []Node
}

// Kind returns NodeKindTag
func (n *TagNode) Kind() NodeKind {
	return NodeKindTag
}

// SelfClosing reports whether the tag renders without a closing tag
func (n *TagNode) SelfClosing() bool {
	return n.Text == nil && len(n.Children) == 0
}

// ClassNames returns the class names in source order
func (n *TagNode) ClassNames() []string {
	if len(n.Classes) == 0 {
		return nil
	}
	names := make([]string, len(n.Classes))
	for i, c := range n.Classes {
		names[i] = c.Name
	}
	return names
}

// String returns a string representation
func (n *TagNode) String() string {
	var sb strings.Builder
	sb.WriteString("TagNode{")
	sb.WriteString(n.Tag)
	if n.ID != nil {
		sb.WriteString(fmt.Sprintf(" #%s", n.ID.ID))
	}
	for _, c := range n.Classes {
		sb.WriteString(fmt.Sprintf(" .%s", c.Name))
	}
	if len(n.Attributes) > 0 {
		sb.WriteString(fmt.Sprintf(" attrs=%d", len(n.Attributes)))
	}
	if n.Text != nil {
		sb.WriteString(" " + n.Text.String())
	}
	if len(n.Children) > 0 {
		sb.WriteString(fmt.Sprintf(" children=%d", len(n.Children)))
	}
	sb.WriteString("}")
	return sb.String()
}

// ClassNode is a single class token, kept opaque
type ClassNode struct {
	Name string
}

// Kind returns NodeKindClass
func (n *ClassNode) Kind() NodeKind {
	return NodeKindClass
}

// String returns a string representation
func (n *ClassNode) String() string {
	return fmt.Sprintf("ClassNode{%s}", n.Name)
}

// IdNode is the element id
type IdNode struct {
	ID string
}

// Kind returns NodeKindId
func (n *IdNode) Kind() NodeKind {
	return NodeKindId
}

// String returns a string representation
func (n *IdNode) String() string {
	return fmt.Sprintf("IdNode{%s}", n.ID)
}

// AttributeNode is a key with an optional raw value. A nil Value is a
// bare boolean attribute.
type AttributeNode struct {
	Key   string
	Value *string
}

// Kind returns NodeKindAttribute
func (n *AttributeNode) Kind() NodeKind {
	return NodeKindAttribute
}

// String returns a string representation
func (n *AttributeNode) String() string {
	if n.Value == nil {
		return fmt.Sprintf("AttributeNode{%s}", n.Key)
	}
	return fmt.Sprintf("AttributeNode{%s=%q}", n.Key, truncate(*n.Value))
}

// TextNode is a line of text or a dedented text block
type TextNode struct {
	Text string
}

// Kind returns NodeKindText
func (n *TextNode) Kind() NodeKind {
	return NodeKindText
}

// String returns a string representation
func (n *TextNode) String() string {
	return fmt.Sprintf("TextNode{%q}", truncate(n.Text))
}

// CommentNode is a dev (//) or native (//!) comment
type CommentNode struct {
	Text  string
	IsDev bool
}

// Kind returns NodeKindComment
func (n *CommentNode) Kind() NodeKind {
	return NodeKindComment
}

// String returns a string representation
func (n *CommentNode) String() string {
	marker := MarkerNativeComment
	if n.IsDev {
		marker = MarkerDevComment
	}
	return fmt.Sprintf("CommentNode{%s%q}", marker, truncate(n.Text))
}

// StringPtr returns a pointer to s, for building attribute values
func StringPtr(s string) *string {
	return &s
}

func truncate(s string) string {
	if len(s) > MaxStringDisplayLength {
		return s[:TruncatedStringLength] + TruncationSuffix
	}
	return s
}

package internal

import (
	"strings"
)

// CompileOptions configures the compiler. It has no recognized fields yet.
type CompileOptions struct{}

// Compile serializes the AST to markup. It cannot fail on a tree produced
// by the parser and panics if a node appears where its kind is invalid.
func Compile(root *RootNode, opts CompileOptions) string {
	var sb strings.Builder
	if root == nil {
		return StringValueEmpty
	}
	for _, node := range root.Nodes {
		compileChild(&sb, node)
	}
	return sb.String()
}

// compileChild renders a node in document or children position
func compileChild(sb *strings.Builder, node Node) {
	switch n := node.(type) {
	case *TagNode:
		compileTag(sb, n)
	case *CommentNode:
		compileComment(sb, n)
	default:
		panic(PanicMsgInvalidChild + kindName(node))
	}
}

func compileTag(sb *strings.Builder, tag *TagNode) {
	sb.WriteString(HTMLTagOpen)
	sb.WriteString(tag.Tag)

	if tag.ID != nil {
		sb.WriteString(HTMLAttrId)
		sb.WriteString(tag.ID.ID)
		sb.WriteString(HTMLAttrQuote)
	}

	if len(tag.Classes) > 0 {
		sb.WriteString(HTMLAttrClass)
		sb.WriteString(strings.Join(tag.ClassNames(), ClassSeparator))
		sb.WriteString(HTMLAttrQuote)
	}

	for _, entry := range tag.Attributes {
		switch a := entry.(type) {
		case *AttributeNode:
			sb.WriteString(HTMLAttrSpace)
			sb.WriteString(a.Key)
			if a.Value != nil {
				sb.WriteString(HTMLAttrValueOpen)
				sb.WriteString(*a.Value)
				sb.WriteString(HTMLAttrQuote)
			}
		case *CommentNode:
			// comments cannot be rendered inside a start tag
		default:
			panic(PanicMsgInvalidAttribute + kindName(entry))
		}
	}

	if tag.SelfClosing() {
		sb.WriteString(HTMLSelfClose)
		return
	}

	sb.WriteString(HTMLTagClose)
	if tag.Text != nil {
		sb.WriteString(tag.Text.Text)
	}
	for _, child := range tag.Children {
		compileChild(sb, child)
	}
	sb.WriteString(HTMLEndTagOpen)
	sb.WriteString(tag.Tag)
	sb.WriteString(HTMLTagClose)
}

func compileComment(sb *strings.Builder, comment *CommentNode) {
	if comment.IsDev {
		return
	}
	sb.WriteString(HTMLCommentOpen)
	sb.WriteString(comment.Text)
	sb.WriteString(HTMLCommentClose)
}

func kindName(node Node) string {
	if node == nil {
		return NodeKindNameUnknown
	}
	return node.Kind().String()
}

package hsml

import (
	"bytes"
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// exportIndent is used for both JSON and YAML output
const exportIndent = 2

// ExportedNode is the serializable form of an AST node. Type carries the
// node kind name; the other fields are set according to the kind.
type ExportedNode struct {
	Type       string          `json:"type" yaml:"type"`
	Tag        string          `json:"tag,omitempty" yaml:"tag,omitempty"`
	ID         string          `json:"id,omitempty" yaml:"id,omitempty"`
	Classes    []string        `json:"classes,omitempty" yaml:"classes,omitempty"`
	Attributes []*ExportedNode `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Key        string          `json:"key,omitempty" yaml:"key,omitempty"`
	Value      *string         `json:"value,omitempty" yaml:"value,omitempty"`
	Text       *string         `json:"text,omitempty" yaml:"text,omitempty"`
	IsDev      *bool           `json:"is_dev,omitempty" yaml:"is_dev,omitempty"`
	Children   []*ExportedNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// ExportAST converts an AST into its serializable form.
func ExportAST(root *RootNode) *ExportedNode {
	out := &ExportedNode{Type: NodeKindRoot.String()}
	if root == nil {
		return out
	}
	out.Children = exportNodes(root.Nodes)
	return out
}

func exportNodes(nodes []Node) []*ExportedNode {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*ExportedNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, exportNode(n))
	}
	return out
}

func exportNode(node Node) *ExportedNode {
	out := &ExportedNode{Type: node.Kind().String()}
	switch n := node.(type) {
	case *TagNode:
		out.Tag = n.Tag
		if n.ID != nil {
			out.ID = n.ID.ID
		}
		out.Classes = n.ClassNames()
		out.Attributes = exportNodes(n.Attributes)
		if n.Text != nil {
			text := n.Text.Text
			out.Text = &text
		}
		out.Children = exportNodes(n.Children)
	case *CommentNode:
		text := n.Text
		isDev := n.IsDev
		out.Text = &text
		out.IsDev = &isDev
	case *AttributeNode:
		out.Key = n.Key
		if n.Value != nil {
			value := *n.Value
			out.Value = &value
		}
	case *TextNode:
		text := n.Text
		out.Text = &text
	case *ClassNode:
		out.Classes = []string{n.Name}
	case *IdNode:
		out.ID = n.ID
	}
	return out
}

// ExportJSON renders the AST as indented JSON.
func ExportJSON(root *RootNode) ([]byte, error) {
	data, err := json.MarshalIndent(ExportAST(root), "", strings.Repeat(" ", exportIndent))
	if err != nil {
		return nil, NewExportError(ExportFormatJSON, err)
	}
	return append(data, '\n'), nil
}

// ExportYAML renders the AST as YAML.
func ExportYAML(root *RootNode) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(exportIndent)
	if err := enc.Encode(ExportAST(root)); err != nil {
		return nil, NewExportError(ExportFormatYAML, err)
	}
	if err := enc.Close(); err != nil {
		return nil, NewExportError(ExportFormatYAML, err)
	}
	return buf.Bytes(), nil
}

// Export renders the AST in the named format (json or yaml).
func Export(root *RootNode, format string) ([]byte, error) {
	switch format {
	case ExportFormatJSON:
		return ExportJSON(root)
	case ExportFormatYAML:
		return ExportYAML(root)
	default:
		return nil, NewUnknownFormatError(format)
	}
}

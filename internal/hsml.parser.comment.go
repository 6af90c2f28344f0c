package internal

import (
	"strings"
)

// parseComment tries a native comment first, then a dev comment. The rest
// starts at the line ending that closed the comment.
func parseComment(input string) (string, *CommentNode, bool) {
	if rest, node, ok := parseNativeComment(input); ok {
		return rest, node, true
	}
	return parseDevComment(input)
}

// parseNativeComment matches //! up to the end of the line
func parseNativeComment(input string) (string, *CommentNode, bool) {
	if !strings.HasPrefix(input, MarkerNativeComment) {
		return input, nil, false
	}
	text, rest := scanToLineEnd(input[len(MarkerNativeComment):])
	return rest, &CommentNode{Text: text, IsDev: false}, true
}

// parseDevComment matches // (not followed by !) up to the end of the line
func parseDevComment(input string) (string, *CommentNode, bool) {
	if !strings.HasPrefix(input, MarkerDevComment) || strings.HasPrefix(input, MarkerNativeComment) {
		return input, nil, false
	}
	text, rest := scanToLineEnd(input[len(MarkerDevComment):])
	return rest, &CommentNode{Text: text, IsDev: true}, true
}

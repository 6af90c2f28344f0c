package internal

import (
	"strings"
)

// Primitive scanners consume a character class from the front of the input
// and return the matched span and the remainder. They never allocate and
// never fail hard; the node builders decide what a miss means.

// isLetter returns true for ASCII letters
func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// isDigit returns true for ASCII digits
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// isAlphaNumeric returns true for ASCII letters and digits
func isAlphaNumeric(ch byte) bool {
	return isLetter(ch) || isDigit(ch)
}

// isIndentChar returns true for the two characters allowed in indentation
func isIndentChar(ch byte) bool {
	return ch == CharSpace || ch == CharTab
}

// isWhitespace returns true for spaces, tabs and line ending characters
func isWhitespace(ch byte) bool {
	return ch == CharSpace || ch == CharTab || ch == CharCR || ch == CharLF
}

// scanTagName matches [A-Za-z][A-Za-z0-9-]*
func scanTagName(input string) (name, rest string, ok bool) {
	if input == StringValueEmpty || !isLetter(input[0]) {
		return StringValueEmpty, input, false
	}
	i := 1
	for i < len(input) && (isAlphaNumeric(input[i]) || input[i] == CharHyphen) {
		i++
	}
	return input[:i], input[i:], true
}

// scanLineEnding matches a single \r\n or \n
func scanLineEnding(input string) (rest string, ok bool) {
	if strings.HasPrefix(input, MarkerCRLF) {
		return input[len(MarkerCRLF):], true
	}
	if strings.HasPrefix(input, MarkerLF) {
		return input[len(MarkerLF):], true
	}
	return input, false
}

// atLineEnding reports whether the input starts with a line ending
func atLineEnding(input string) bool {
	return strings.HasPrefix(input, MarkerLF) || strings.HasPrefix(input, MarkerCRLF)
}

// scanIndent matches leading spaces and tabs
func scanIndent(input string) (indent, rest string) {
	i := 0
	for i < len(input) && isIndentChar(input[i]) {
		i++
	}
	return input[:i], input[i:]
}

// scanToLineEnd matches everything up to the next line ending. A \r
// directly before the \n is not part of the match.
func scanToLineEnd(input string) (line, rest string) {
	i := strings.IndexByte(input, CharLF)
	if i < 0 {
		return input, StringValueEmpty
	}
	end := i
	if end > 0 && input[end-1] == CharCR {
		end--
	}
	return input[:end], input[end:]
}

// skipWhitespace drops leading spaces, tabs and line endings
func skipWhitespace(input string) string {
	i := 0
	for i < len(input) && isWhitespace(input[i]) {
		i++
	}
	return input[i:]
}

// isSelectorTerminator returns true for characters that end a class or id token
func isSelectorTerminator(input string, i int) bool {
	switch input[i] {
	case CharClass, CharId, CharAttrOpen, CharSpace, CharTab, CharLF:
		return true
	case CharCR:
		return i+1 < len(input) && input[i+1] == CharLF
	}
	return false
}

// scanClassName matches a class token. Bracketed arbitrary values are
// scanned with backslash escapes and may nest; ok is false when a bracket
// is never closed.
func scanClassName(input string) (name, rest string, ok bool) {
	i := 0
	for i < len(input) && !isSelectorTerminator(input, i) {
		if input[i] != CharBracketOpen {
			i++
			continue
		}
		end, closed := scanBracket(input[i:])
		if !closed {
			return StringValueEmpty, input[i:], false
		}
		i += end
	}
	return input[:i], input[i:], true
}

// scanBracket expects input to start with '[' and returns the index just
// past the matching unescaped ']'.
func scanBracket(input string) (end int, ok bool) {
	depth := 0
	escaped := false
	for i := 0; i < len(input); i++ {
		ch := input[i]
		switch {
		case escaped:
			escaped = false
		case ch == CharEscape:
			escaped = true
		case ch == CharBracketOpen:
			depth++
		case ch == CharBracketClose:
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

// scanId matches an id token
func scanId(input string) (id, rest string) {
	i := 0
	for i < len(input) && !isSelectorTerminator(input, i) {
		i++
	}
	return input[:i], input[i:]
}

// scanQuoted expects input to start with a quote character and matches up
// to the matching unescaped quote, across line breaks. value excludes the
// quotes and is returned raw.
func scanQuoted(input string) (value, rest string, ok bool) {
	if input == StringValueEmpty {
		return StringValueEmpty, input, false
	}
	quote := input[0]
	escaped := false
	for i := 1; i < len(input); i++ {
		ch := input[i]
		switch {
		case escaped:
			escaped = false
		case ch == CharEscape:
			escaped = true
		case ch == quote:
			return input[1:i], input[i+1:], true
		}
	}
	return StringValueEmpty, input, false
}

// isQuote returns true for the two accepted quote characters
func isQuote(ch byte) bool {
	return ch == CharDoubleQuote || ch == CharSingleQuote
}

// isAttrKeyStart returns true for characters that may begin an attribute key
func isAttrKeyStart(ch byte) bool {
	if isLetter(ch) {
		return true
	}
	switch ch {
	case '_', ':', '@', '#', '[', '(', '*', '.':
		return true
	}
	return false
}

// isAttrKeyChar returns true for characters that may continue an attribute key
func isAttrKeyChar(ch byte) bool {
	if isAlphaNumeric(ch) {
		return true
	}
	switch ch {
	case '-', '_', ':', '.', '@', '#', '[', ']', '{', '}', '(', ')', '*', '$', '%', '|':
		return true
	}
	return false
}

// scanAttrKey matches an attribute key. Parentheses inside the key must
// balance, so the closing ')' of the list is never swallowed.
func scanAttrKey(input string) (key, rest string, ok bool) {
	if input == StringValueEmpty || !isAttrKeyStart(input[0]) {
		return StringValueEmpty, input, false
	}
	parens := 0
	i := 0
	for i < len(input) && isAttrKeyChar(input[i]) {
		if input[i] == CharAttrOpen {
			parens++
		} else if input[i] == CharAttrClose {
			if parens == 0 {
				break
			}
			parens--
		}
		i++
	}
	if i == 0 {
		return StringValueEmpty, input, false
	}
	return input[:i], input[i:], true
}

// skipAttrSeparators drops whitespace, line endings and commas
func skipAttrSeparators(input string) string {
	i := 0
	for i < len(input) && (isWhitespace(input[i]) || input[i] == CharAttrSep) {
		i++
	}
	return input[i:]
}

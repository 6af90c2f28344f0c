package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanTagName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantRest string
		wantOK   bool
	}{
		{name: "with text", input: "div Text", wantName: "div", wantRest: " Text", wantOK: true},
		{name: "with class", input: "h1.title", wantName: "h1", wantRest: ".title", wantOK: true},
		{name: "custom element", input: "my-button(x)", wantName: "my-button", wantRest: "(x)", wantOK: true},
		{name: "at end", input: "br", wantName: "br", wantRest: "", wantOK: true},
		{name: "leading digit", input: "1div", wantRest: "1div", wantOK: false},
		{name: "leading hyphen", input: "-div", wantRest: "-div", wantOK: false},
		{name: "whitespace", input: " div", wantRest: " div", wantOK: false},
		{name: "empty", input: "", wantRest: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, rest, ok := scanTagName(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}

func TestScanClassName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantRest string
		wantOK   bool
	}{
		{name: "followed by class", input: "text-red.font-bold", wantName: "text-red", wantRest: ".font-bold", wantOK: true},
		{name: "followed by text", input: "a Text", wantName: "a", wantRest: " Text", wantOK: true},
		{name: "followed by id", input: "a#x", wantName: "a", wantRest: "#x", wantOK: true},
		{name: "followed by attributes", input: "a(x)", wantName: "a", wantRest: "(x)", wantOK: true},
		{name: "followed by crlf", input: "a\r\nb", wantName: "a", wantRest: "\r\nb", wantOK: true},
		{name: "variant prefix", input: "hover:bg-red-500 x", wantName: "hover:bg-red-500", wantRest: " x", wantOK: true},
		{name: "arbitrary value", input: "w-[1.5rem] x", wantName: "w-[1.5rem]", wantRest: " x", wantOK: true},
		{name: "arbitrary value with spaces and hash", input: "bg-[url(#a b)].next", wantName: "bg-[url(#a b)]", wantRest: ".next", wantOK: true},
		{name: "escaped bracket", input: `content-['\]'] x`, wantName: `content-['\]']`, wantRest: " x", wantOK: true},
		{name: "nested brackets", input: "grid-[[a],1fr]", wantName: "grid-[[a],1fr]", wantRest: "", wantOK: true},
		{name: "unterminated bracket", input: "w-[1.5rem x", wantRest: "[1.5rem x", wantOK: false},
		{name: "empty", input: " x", wantName: "", wantRest: " x", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, rest, ok := scanClassName(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}

func TestScanId(t *testing.T) {
	tests := []struct {
		input    string
		wantId   string
		wantRest string
	}{
		{input: "id1 Text", wantId: "id1", wantRest: " Text"},
		{input: "id1.text-red", wantId: "id1", wantRest: ".text-red"},
		{input: "id1(hidden)", wantId: "id1", wantRest: "(hidden)"},
		{input: "main-nav#x", wantId: "main-nav", wantRest: "#x"},
		{input: "", wantId: "", wantRest: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			id, rest := scanId(tt.input)
			assert.Equal(t, tt.wantId, id)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}

func TestScanQuoted(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValue string
		wantRest  string
		wantOK    bool
	}{
		{name: "double quotes", input: `"https://x.dev/")`, wantValue: "https://x.dev/", wantRest: ")", wantOK: true},
		{name: "single quotes", input: `'a "b"' c`, wantValue: `a "b"`, wantRest: " c", wantOK: true},
		{name: "escaped quote", input: `"a \"b\""`, wantValue: `a \"b\"`, wantRest: "", wantOK: true},
		{name: "escaped backslash", input: `"a\\" b`, wantValue: `a\\`, wantRest: " b", wantOK: true},
		{name: "multi line", input: "\"{\n  a: 1\n}\")", wantValue: "{\n  a: 1\n}", wantRest: ")", wantOK: true},
		{name: "unterminated", input: `"abc`, wantRest: `"abc`, wantOK: false},
		{name: "escaped closing quote only", input: `"abc\"`, wantRest: `"abc\"`, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, rest, ok := scanQuoted(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantValue, value)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}

func TestScanAttrKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKey  string
		wantRest string
		wantOK   bool
	}{
		{name: "plain", input: `src="x"`, wantKey: "src", wantRest: `="x"`, wantOK: true},
		{name: "data attribute", input: "data-id=", wantKey: "data-id", wantRest: "=", wantOK: true},
		{name: "vue bind", input: `:class="x"`, wantKey: ":class", wantRest: `="x"`, wantOK: true},
		{name: "vue event with modifier", input: "@click.prevent=", wantKey: "@click.prevent", wantRest: "=", wantOK: true},
		{name: "angular two way", input: `[(ngModel)]="x"`, wantKey: "[(ngModel)]", wantRest: `="x"`, wantOK: true},
		{name: "angular event", input: "(click)=", wantKey: "(click)", wantRest: "=", wantOK: true},
		{name: "slot", input: "#default)", wantKey: "#default", wantRest: ")", wantOK: true},
		{name: "bare before close", input: "hidden)", wantKey: "hidden", wantRest: ")", wantOK: true},
		{name: "leading digit", input: "1a", wantRest: "1a", wantOK: false},
		{name: "leading quote", input: `"a"`, wantRest: `"a"`, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, rest, ok := scanAttrKey(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}

func TestScanToLineEnd(t *testing.T) {
	tests := []struct {
		input    string
		wantLine string
		wantRest string
	}{
		{input: "abc\ndef", wantLine: "abc", wantRest: "\ndef"},
		{input: "abc\r\ndef", wantLine: "abc", wantRest: "\r\ndef"},
		{input: "abc", wantLine: "abc", wantRest: ""},
		{input: "\n", wantLine: "", wantRest: "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			line, rest := scanToLineEnd(tt.input)
			assert.Equal(t, tt.wantLine, line)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}

func TestCalculatePosition(t *testing.T) {
	assert.Equal(t, Position{Offset: 0, Line: 1, Column: 1}, calculatePosition(""))
	assert.Equal(t, Position{Offset: 3, Line: 1, Column: 4}, calculatePosition("div"))
	assert.Equal(t, Position{Offset: 6, Line: 2, Column: 3}, calculatePosition("div\n  "))
}

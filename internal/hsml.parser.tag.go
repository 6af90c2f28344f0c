package internal

import (
	"strings"

	"go.uber.org/zap"
)

// parseTag parses a tag head and its indented children. A nil tag with a
// nil error means the input does not start a tag.
func (p *Parser) parseTag(ctx *parseContext, input string) (string, *TagNode, error) {
	var tag *TagNode
	if input != StringValueEmpty && (input[0] == CharClass || input[0] == CharId) {
		tag = &TagNode{Tag: DefaultTagName}
	} else {
		name, rest, ok := scanTagName(input)
		if !ok {
			return input, nil, nil
		}
		tag = &TagNode{Tag: name}
		input = rest
	}

	for input != StringValueEmpty {
		switch input[0] {
		case CharId:
			if tag.ID != nil {
				return input, nil, p.fail(ErrorKindDuplicateId, input)
			}
			id, rest := scanId(input[1:])
			if id == StringValueEmpty {
				return input, nil, p.fail(ErrorKindMalformedSelector, input)
			}
			tag.ID = &IdNode{ID: id}
			input = rest

		case CharClass:
			after := input[1:]
			if after == StringValueEmpty || atLineEnding(after) {
				rest, text, err := p.parseTextBlock(ctx, after)
				if err != nil {
					return input, nil, err
				}
				tag.Text = text
				input = rest
				continue
			}
			name, rest, ok := scanClassName(after)
			if !ok {
				return input, nil, p.fail(ErrorKindUnterminatedClassBracket, rest)
			}
			if name == StringValueEmpty {
				return input, nil, p.fail(ErrorKindMalformedSelector, input)
			}
			tag.Classes = append(tag.Classes, &ClassNode{Name: name})
			input = rest

		case CharAttrOpen:
			rest, entries, err := p.parseAttributes(input)
			if err != nil {
				return input, nil, err
			}
			tag.Attributes = append(tag.Attributes, entries...)
			input = rest

		case CharSpace, CharTab:
			text, rest := scanToLineEnd(input[1:])
			if strings.TrimSpace(text) != StringValueEmpty {
				tag.Text = &TextNode{Text: text}
			}
			input = rest

		case CharLF, CharCR:
			if !atLineEnding(input) {
				return input, tag, nil
			}
			rest, child, err := p.parseChild(ctx, input)
			if err != nil {
				return input, nil, err
			}
			if child == nil {
				return input, tag, nil
			}
			tag.Children = append(tag.Children, child)
			input = rest

		default:
			return input, tag, nil
		}
	}

	return input, tag, nil
}

// parseChild looks past the line ending at the next content line and, if
// it is indented exactly one level deeper than the current tag, parses it
// as a child. A nil child with a nil error means the tag has no further
// children and input is left untouched for the caller.
func (p *Parser) parseChild(ctx *parseContext, input string) (string, Node, error) {
	cur := input
	for {
		line, ok := scanLineEnding(cur)
		if !ok {
			return input, nil, nil
		}
		indent, content := scanIndent(line)
		if content == StringValueEmpty {
			return input, nil, nil
		}
		if atLineEnding(content) {
			cur = content
			continue
		}
		if indent == StringValueEmpty {
			return input, nil, nil
		}

		level, err := p.indentLevel(ctx, indent, line)
		if err != nil {
			return input, nil, err
		}
		if level <= ctx.depth {
			return input, nil, nil
		}
		if level > ctx.depth+1 {
			return input, nil, p.fail(ErrorKindInconsistentIndentation, line)
		}
		if level > p.config.MaxDepth {
			return input, nil, p.fail(ErrorKindMaxDepthExceeded, line)
		}

		ctx.depth++
		defer func() { ctx.depth-- }()

		if rest, comment, ok := parseComment(content); ok {
			return rest, comment, nil
		}
		rest, tag, err := p.parseTag(ctx, content)
		if err != nil {
			return input, nil, err
		}
		if tag == nil {
			return input, nil, p.fail(ErrorKindMalformedTagName, content)
		}
		return rest, tag, nil
	}
}

// indentLevel resolves an indent to a nesting level, establishing the
// document's indentation unit on first use. line is the indented line,
// used for error positions.
func (p *Parser) indentLevel(ctx *parseContext, indent, line string) (int, error) {
	if strings.ContainsRune(indent, CharTab) && strings.ContainsRune(indent, CharSpace) {
		return 0, p.fail(ErrorKindInconsistentIndentation, line)
	}
	if ctx.unit == StringValueEmpty {
		ctx.unit = indent
		p.logger.Debug(LogMsgIndentUnitFound, zap.Int(LogFieldUnitLen, len(indent)))
	}
	if len(indent)%len(ctx.unit) != 0 {
		return 0, p.fail(ErrorKindInconsistentIndentation, line)
	}
	level := len(indent) / len(ctx.unit)
	if strings.Repeat(ctx.unit, level) != indent {
		return 0, p.fail(ErrorKindInconsistentIndentation, line)
	}
	return level, nil
}

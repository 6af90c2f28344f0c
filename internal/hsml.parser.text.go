package internal

import (
	"strings"

	"go.uber.org/zap"
)

// parseTextBlock captures the lines following a lone '.' that are indented
// at least one level deeper than the current tag, with that indentation
// removed. input starts at the line ending after the '.'. Blank lines pass
// through; trailing blank lines are dropped and left in the rest.
func (p *Parser) parseTextBlock(ctx *parseContext, input string) (string, *TextNode, error) {
	var lines []string
	kept := 0
	rest := input
	cur := input

	for {
		after, ok := scanLineEnding(cur)
		if !ok {
			break
		}
		line, next := scanToLineEnd(after)

		if strings.TrimSpace(line) == StringValueEmpty {
			lines = append(lines, StringValueEmpty)
			cur = next
			continue
		}

		if ctx.unit == StringValueEmpty {
			indent, _ := scanIndent(line)
			if indent == StringValueEmpty {
				break
			}
			if strings.ContainsRune(indent, CharTab) && strings.ContainsRune(indent, CharSpace) {
				return input, nil, p.fail(ErrorKindInconsistentIndentation, after)
			}
			ctx.unit = indent
			p.logger.Debug(LogMsgIndentUnitFound, zap.Int(LogFieldUnitLen, len(indent)))
		}

		prefix := strings.Repeat(ctx.unit, ctx.depth+1)
		if !strings.HasPrefix(line, prefix) {
			break
		}
		lines = append(lines, line[len(prefix):])
		kept = len(lines)
		cur = next
		rest = next
	}

	if kept == 0 {
		return input, nil, nil
	}
	return rest, &TextNode{Text: strings.Join(lines[:kept], MarkerLF)}, nil
}

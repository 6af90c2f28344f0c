package internal

// parseAttributes parses a parenthesized attribute list. input starts at
// the opening '('. Entries are *AttributeNode and *CommentNode values; an
// empty list yields nil.
func (p *Parser) parseAttributes(input string) (string, []Node, error) {
	cur := input[1:]
	var entries []Node

	for {
		cur = skipAttrSeparators(cur)
		if cur == StringValueEmpty {
			return input, nil, p.fail(ErrorKindUnexpectedEndOfInput, cur)
		}
		if cur[0] == CharAttrClose {
			return cur[1:], entries, nil
		}

		if rest, comment, ok := parseComment(cur); ok {
			entries = append(entries, comment)
			cur = rest
			continue
		}

		rest, attr, err := p.parseAttribute(cur)
		if err != nil {
			return input, nil, err
		}
		entries = append(entries, attr)
		cur = rest
	}
}

// parseAttribute parses key or key="value". The value is stored raw
// between the quotes.
func (p *Parser) parseAttribute(input string) (string, *AttributeNode, error) {
	key, rest, ok := scanAttrKey(input)
	if !ok {
		return input, nil, p.fail(ErrorKindMalformedAttribute, input)
	}
	if rest == StringValueEmpty || rest[0] != CharAttrAssign {
		return rest, &AttributeNode{Key: key}, nil
	}

	valueStart := rest[1:]
	if valueStart == StringValueEmpty {
		return input, nil, p.fail(ErrorKindUnexpectedEndOfInput, valueStart)
	}
	if !isQuote(valueStart[0]) {
		return input, nil, p.fail(ErrorKindMalformedAttribute, valueStart)
	}
	value, rest, ok := scanQuoted(valueStart)
	if !ok {
		return input, nil, p.fail(ErrorKindUnterminatedQuotedValue, valueStart)
	}
	return rest, &AttributeNode{Key: key, Value: &value}, nil
}

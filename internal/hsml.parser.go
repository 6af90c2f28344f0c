package internal

import (
	"go.uber.org/zap"
)

// ParserConfig holds parser limits
type ParserConfig struct {
	// MaxDepth bounds tag nesting. Zero means DefaultMaxDepth.
	MaxDepth int
}

// DefaultParserConfig returns the default parser configuration
func DefaultParserConfig() ParserConfig {
	return ParserConfig{MaxDepth: DefaultMaxDepth}
}

// parseContext is the per-document indentation state. It is created once
// per Parse call and threaded through the recursive descent by pointer.
type parseContext struct {
	unit  string // indentation unit, empty until the first indented line
	depth int    // nesting depth of the tag currently being parsed
}

// Parser produces an AST from HSML source
type Parser struct {
	source string
	config ParserConfig
	logger *zap.Logger
}

// NewParser creates a new parser for the given source
func NewParser(source string, config ParserConfig, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxDepth <= 0 {
		config.MaxDepth = DefaultMaxDepth
	}
	logger.Debug(LogMsgParserCreated, zap.Int(LogFieldSourceLen, len(source)))
	return &Parser{
		source: source,
		config: config,
		logger: logger,
	}
}

// Parse is a convenience wrapper around NewParser(...).Parse()
func Parse(source string, config ParserConfig, logger *zap.Logger) (*RootNode, error) {
	return NewParser(source, config, logger).Parse()
}

// Parse consumes the whole source and produces the root node. On failure
// the returned error is a *ParseError.
func (p *Parser) Parse() (*RootNode, error) {
	p.logger.Debug(LogMsgParserStart)

	ctx := &parseContext{}
	nodes, err := p.parseDocument(ctx, p.source)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			p.logger.Debug(LogMsgParserFailed,
				zap.String(LogFieldKind, string(pe.Kind)),
				zap.Int(LogFieldLine, pe.Position.Line),
				zap.Int(LogFieldColumn, pe.Position.Column))
		}
		return nil, err
	}

	p.logger.Debug(LogMsgParserEnd, zap.Int(LogFieldNodes, len(nodes)))
	return &RootNode{Nodes: nodes}, nil
}

// parseDocument parses root-level comments and tags until input is exhausted
func (p *Parser) parseDocument(ctx *parseContext, input string) ([]Node, error) {
	var nodes []Node

	for {
		input = skipWhitespace(input)
		if input == StringValueEmpty {
			return nodes, nil
		}

		if rest, comment, ok := parseComment(input); ok {
			nodes = append(nodes, comment)
			input = rest
			continue
		}

		rest, tag, err := p.parseTag(ctx, input)
		if err != nil {
			return nil, err
		}
		if tag == nil {
			return nil, p.fail(ErrorKindMalformedTagName, input)
		}
		nodes = append(nodes, tag)
		input = rest
	}
}

// fail builds a *ParseError positioned at the start of rest
func (p *Parser) fail(kind ErrorKind, rest string) *ParseError {
	consumed := len(p.source) - len(rest)
	if consumed < 0 || consumed > len(p.source) {
		consumed = 0
	}
	return &ParseError{
		Kind:      kind,
		Remaining: rest,
		Position:  calculatePosition(p.source[:consumed]),
	}
}

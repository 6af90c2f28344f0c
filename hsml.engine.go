package hsml

import (
	"context"
	"errors"
	"strconv"

	"github.com/itsatony/go-hsml/internal"
	"go.uber.org/zap"
)

// Engine is the main entry point for parsing and compiling HSML.
// It is safe for concurrent use; every parse gets its own indentation state.
type Engine struct {
	config *engineConfig
	logger *zap.Logger
}

// New creates a new hsml Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}

	if config.maxDepth < 0 {
		return nil, NewConfigValueError(ErrMsgInvalidMaxDepth, strconv.Itoa(config.maxDepth))
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgEngineCreated, zap.Int(LogFieldMaxDepth, config.maxDepth))

	return &Engine{
		config: config,
		logger: logger,
	}, nil
}

// MustNew creates a new Engine and panics if there's an error.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// Parse parses an HSML document into its AST. Structural failures are
// returned as a *cuserr.CustomError wrapping a *ParseFailure.
func (e *Engine) Parse(source string) (*RootNode, error) {
	if err := e.checkSourceSize(source); err != nil {
		return nil, err
	}

	parserConfig := internal.ParserConfig{MaxDepth: e.config.maxDepth}
	root, err := internal.NewParser(source, parserConfig, e.logger).Parse()
	if err != nil {
		var failure *internal.ParseError
		if errors.As(err, &failure) {
			return nil, NewParseFailureError(failure)
		}
		return nil, NewParseError(ErrMsgParseFailed, Position{}, err)
	}
	return root, nil
}

// Compile serializes an AST to markup. It cannot fail on a tree returned
// by Parse.
func (e *Engine) Compile(root *RootNode, opts CompileOptions) string {
	return internal.Compile(root, opts)
}

// CompileString parses and compiles in one step, consulting the result
// cache when one is configured.
func (e *Engine) CompileString(ctx context.Context, source string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := e.checkSourceSize(source); err != nil {
		return "", err
	}

	cache := e.config.resultCache
	var key string
	if cache != nil {
		key = cache.makeKey(e.cacheScope(), source)
		if out, ok := cache.get(key); ok {
			e.logger.Debug(LogMsgCacheHit, zap.Int(LogFieldSourceLen, len(source)))
			return out, nil
		}
		e.logger.Debug(LogMsgCacheMiss, zap.Int(LogFieldSourceLen, len(source)))
	}

	e.logger.Debug(LogMsgCompileStart, zap.Int(LogFieldSourceLen, len(source)))
	root, err := e.Parse(source)
	if err != nil {
		return "", err
	}
	out := e.Compile(root, e.config.compileOptions)
	e.logger.Debug(LogMsgCompileDone, zap.Int(LogFieldOutputLen, len(out)))

	if cache != nil {
		cache.set(key, out)
	}
	return out, nil
}

// CompileStored loads the latest version of a named document from storage
// and compiles it.
func (e *Engine) CompileStored(ctx context.Context, storage DocumentStorage, name string) (string, error) {
	doc, err := storage.Get(ctx, name)
	if err != nil {
		return "", err
	}
	e.logger.Debug(LogMsgStoredCompile,
		zap.String(LogFieldName, doc.Name),
		zap.Int(LogFieldVersion, doc.Version))
	return e.CompileString(ctx, doc.Source)
}

func (e *Engine) checkSourceSize(source string) error {
	if e.config.maxSourceSize > 0 && len(source) > e.config.maxSourceSize {
		return NewSourceTooLargeError(len(source), e.config.maxSourceSize)
	}
	return nil
}

// cacheScope separates cached results by the effective depth limit.
func (e *Engine) cacheScope() string {
	depth := e.config.maxDepth
	if depth == 0 {
		depth = DefaultMaxDepth
	}
	return cacheScopeDepthPrefix + strconv.Itoa(depth) + cacheScopeSeparator
}

// MaxDepth returns the configured maximum nesting depth.
func (e *Engine) MaxDepth() int {
	return e.config.maxDepth
}

// ResultCache returns the configured result cache, or nil.
func (e *Engine) ResultCache() *ResultCache {
	return e.config.resultCache
}

// defaultEngine backs the package-level helpers.
var defaultEngine = MustNew()

// Parse parses source with the default engine.
func Parse(source string) (*RootNode, error) {
	return defaultEngine.Parse(source)
}

// Compile serializes an AST with the given options.
func Compile(root *RootNode, opts CompileOptions) string {
	return internal.Compile(root, opts)
}

// CompileContent parses and compiles source with default options. A parse
// failure is unrecoverable for callers of this helper and panics.
func CompileContent(source string) string {
	root, err := defaultEngine.Parse(source)
	if err != nil {
		panic(err)
	}
	return defaultEngine.Compile(root, CompileOptions{})
}

package hsml

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Engine.
type Option func(*engineConfig)

// engineConfig holds the internal configuration for an Engine.
type engineConfig struct {
	maxDepth       int
	maxSourceSize  int
	compileOptions CompileOptions
	resultCache    *ResultCache
	logger         *zap.Logger
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		maxDepth:      DefaultMaxDepth,
		maxSourceSize: DefaultMaxSourceSize,
		logger:        nil,
	}
}

// WithMaxDepth sets the maximum tag nesting depth. 0 uses the default.
// Default: 256
func WithMaxDepth(depth int) Option {
	return func(c *engineConfig) {
		c.maxDepth = depth
	}
}

// WithMaxSourceSize sets the largest accepted source in bytes.
// Use 0 to disable the check.
// Default: 8MB
func WithMaxSourceSize(size int) Option {
	return func(c *engineConfig) {
		c.maxSourceSize = size
	}
}

// WithCompileOptions sets the options used by CompileString and CompileStored.
func WithCompileOptions(opts CompileOptions) Option {
	return func(c *engineConfig) {
		c.compileOptions = opts
	}
}

// WithResultCache enables caching of compiled output keyed by source.
// Default: nil (no caching)
func WithResultCache(cache *ResultCache) Option {
	return func(c *engineConfig) {
		c.resultCache = cache
	}
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

package hsml

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// ProjectConfig is the hsml.yaml project file. Absent keys keep their
// defaults; unknown keys are rejected.
type ProjectConfig struct {
	// Source is the file or directory compiled by default.
	Source string `yaml:"source"`

	// Output is the directory compiled files are written to. Empty writes
	// next to each source file.
	Output string `yaml:"output"`

	SourceExtension string `yaml:"source_extension"`
	OutputExtension string `yaml:"output_extension"`

	// Concurrency is the number of files compiled in parallel.
	Concurrency int `yaml:"concurrency"`

	MaxDepth      int    `yaml:"max_depth"`
	MaxSourceSize int    `yaml:"max_source_size"`
	LogLevel      string `yaml:"log_level"`

	Storage StorageConfig `yaml:"storage"`
}

// StorageConfig selects a document storage driver.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// DefaultProjectConfig returns the configuration used when no file exists.
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Source:          ".",
		SourceExtension: DefaultSourceExtension,
		OutputExtension: DefaultOutputExtension,
		Concurrency:     DefaultConcurrency,
		MaxDepth:        DefaultMaxDepth,
		MaxSourceSize:   DefaultMaxSourceSize,
		LogLevel:        DefaultLogLevel,
		Storage: StorageConfig{
			Driver: StorageDriverMemory,
		},
	}
}

// LoadProjectConfig reads and validates a project file.
func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewConfigError(ErrMsgConfigRead, path, err)
	}
	cfg, err := ParseProjectConfig(data)
	if err != nil {
		return nil, NewConfigError(ErrMsgConfigParse, path, err)
	}
	return cfg, nil
}

// ParseProjectConfig decodes project YAML over the defaults and validates it.
func ParseProjectConfig(data []byte) (*ProjectConfig, error) {
	cfg := DefaultProjectConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the tools cannot use.
func (c *ProjectConfig) Validate() error {
	if !strings.HasPrefix(c.SourceExtension, ".") {
		return NewConfigValueError(ErrMsgInvalidExt, c.SourceExtension)
	}
	if !strings.HasPrefix(c.OutputExtension, ".") {
		return NewConfigValueError(ErrMsgInvalidExt, c.OutputExtension)
	}
	if c.SourceExtension == c.OutputExtension {
		return NewConfigValueError(ErrMsgSameExt, c.SourceExtension)
	}
	if c.Concurrency <= 0 {
		return NewConfigValueError(ErrMsgInvalidConcurrency, strconv.Itoa(c.Concurrency))
	}
	if c.MaxDepth < 0 {
		return NewConfigValueError(ErrMsgInvalidMaxDepth, strconv.Itoa(c.MaxDepth))
	}
	if _, err := c.Level(); err != nil {
		return NewConfigValueError(err.Error(), c.LogLevel)
	}
	return nil
}

// Level returns the configured log level.
func (c *ProjectConfig) Level() (zapcore.Level, error) {
	return zapcore.ParseLevel(c.LogLevel)
}

// EngineOptions returns the engine options this configuration implies.
func (c *ProjectConfig) EngineOptions(logger *zap.Logger) []Option {
	return []Option{
		WithLogger(logger),
		WithMaxDepth(c.MaxDepth),
		WithMaxSourceSize(c.MaxSourceSize),
	}
}

// BatchConfig returns the batch runner settings this configuration implies.
func (c *ProjectConfig) BatchConfig() BatchConfig {
	return BatchConfig{
		SourceExtension: c.SourceExtension,
		OutputExtension: c.OutputExtension,
		OutputDir:       c.Output,
		Concurrency:     c.Concurrency,
	}
}

// OpenStorage opens the configured document storage.
func (c *ProjectConfig) OpenStorage() (DocumentStorage, error) {
	return OpenStorage(c.Storage.Driver, c.Storage.DSN)
}

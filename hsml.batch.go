package hsml

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// BatchConfig configures the file and directory compiler.
type BatchConfig struct {
	// SourceExtension selects the files to compile. Default: ".hsml".
	SourceExtension string
	// OutputExtension replaces the source extension. Default: ".html".
	OutputExtension string
	// OutputDir, when set, receives output mirroring the source tree.
	// Empty writes each file next to its source.
	OutputDir string
	// Concurrency is the number of files compiled in parallel. Default: 4.
	Concurrency int
}

// DefaultBatchConfig returns the default batch settings.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		SourceExtension: DefaultSourceExtension,
		OutputExtension: DefaultOutputExtension,
		Concurrency:     DefaultConcurrency,
	}
}

// BatchResult is the outcome for one source file. Err is nil on success.
type BatchResult struct {
	Input    string
	Output   string
	Err      error
	Duration time.Duration
}

// BatchReport collects the outcome of a directory run, ordered by input path.
type BatchReport struct {
	Compiled []BatchResult
	Failures []BatchResult
}

// HasFailures reports whether any file failed.
func (r *BatchReport) HasFailures() bool {
	return len(r.Failures) > 0
}

// Total returns the number of files processed.
func (r *BatchReport) Total() int {
	return len(r.Compiled) + len(r.Failures)
}

// BatchCompiler compiles files and directory trees with an Engine. A file
// that fails to parse is recorded and skipped; the run continues.
type BatchCompiler struct {
	engine *Engine
	config BatchConfig
	logger *zap.Logger
}

// NewBatchCompiler creates a batch compiler. Zero config fields take defaults.
func NewBatchCompiler(engine *Engine, config BatchConfig, logger *zap.Logger) (*BatchCompiler, error) {
	if engine == nil {
		engine = defaultEngine
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := DefaultBatchConfig()
	if config.SourceExtension == "" {
		config.SourceExtension = defaults.SourceExtension
	}
	if config.OutputExtension == "" {
		config.OutputExtension = defaults.OutputExtension
	}
	if config.Concurrency == 0 {
		config.Concurrency = defaults.Concurrency
	}
	if config.Concurrency < 0 {
		return nil, NewConfigValueError(ErrMsgInvalidConcurrency, strconv.Itoa(config.Concurrency))
	}
	if config.SourceExtension == config.OutputExtension {
		return nil, NewConfigValueError(ErrMsgSameExt, config.SourceExtension)
	}
	return &BatchCompiler{
		engine: engine,
		config: config,
		logger: logger,
	}, nil
}

// Config returns the effective configuration.
func (b *BatchCompiler) Config() BatchConfig {
	return b.config
}

// IsSource reports whether path carries the source extension.
func (b *BatchCompiler) IsSource(path string) bool {
	return strings.EqualFold(filepath.Ext(path), b.config.SourceExtension)
}

// OutputPath maps a source file under root to its output path: the source
// extension becomes the output extension, and with an OutputDir the path
// relative to root is recreated below it.
func (b *BatchCompiler) OutputPath(root, in string) string {
	out := strings.TrimSuffix(in, filepath.Ext(in)) + b.config.OutputExtension
	if b.config.OutputDir == "" {
		return out
	}
	rel, err := filepath.Rel(root, out)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(out)
	}
	return filepath.Join(b.config.OutputDir, rel)
}

// CompileFile compiles one file. An empty out derives the path with
// OutputPath.
func (b *BatchCompiler) CompileFile(ctx context.Context, in, out string) (*BatchResult, error) {
	if in == "" {
		return nil, NewInvalidPathError(ErrMsgEmptyPath, in)
	}
	if !b.IsSource(in) {
		return nil, NewInvalidPathError(ErrMsgUnsupportedFile, in)
	}
	if out == "" {
		out = b.OutputPath(filepath.Dir(in), in)
	}
	result := b.compileOne(ctx, in, out)
	return &result, result.Err
}

// CheckFile parses one file without writing output.
func (b *BatchCompiler) CheckFile(ctx context.Context, in string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	source, err := os.ReadFile(in)
	if err != nil {
		return NewIOError(ErrMsgReadFailed, in, err)
	}
	_, err = b.engine.Parse(string(source))
	return err
}

// CompileDir compiles every source file below dir.
func (b *BatchCompiler) CompileDir(ctx context.Context, dir string) (*BatchReport, error) {
	return b.runDir(ctx, dir, func(in string) BatchResult {
		return b.compileOne(ctx, in, b.OutputPath(dir, in))
	})
}

// CheckDir parses every source file below dir without writing output.
func (b *BatchCompiler) CheckDir(ctx context.Context, dir string) (*BatchReport, error) {
	return b.runDir(ctx, dir, func(in string) BatchResult {
		start := time.Now()
		err := b.CheckFile(ctx, in)
		return BatchResult{Input: in, Err: err, Duration: time.Since(start)}
	})
}

// Collect returns the source files below dir in lexical order.
func (b *BatchCompiler) Collect(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if b.IsSource(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, NewIOError(ErrMsgWalkFailed, dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// runDir fans the source files out to a bounded worker pool.
func (b *BatchCompiler) runDir(ctx context.Context, dir string, work func(string) BatchResult) (*BatchReport, error) {
	files, err := b.Collect(dir)
	if err != nil {
		return nil, err
	}

	workers := b.config.Concurrency
	if workers > len(files) {
		workers = len(files)
	}
	b.logger.Info(LogMsgBatchStart,
		zap.String(LogFieldPath, dir),
		zap.Int(LogFieldWorkers, workers))

	results := make([]BatchResult, len(files))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					results[i] = BatchResult{Input: files[i], Err: err}
					continue
				}
				results[i] = work(files[i])
			}
		}()
	}
	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	report := &BatchReport{}
	for _, r := range results {
		if r.Err != nil {
			report.Failures = append(report.Failures, r)
		} else {
			report.Compiled = append(report.Compiled, r)
		}
	}

	b.logger.Info(LogMsgBatchDone,
		zap.String(LogFieldPath, dir),
		zap.Int(LogFieldCompiled, len(report.Compiled)),
		zap.Int(LogFieldFailed, len(report.Failures)))

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// compileOne reads, compiles and writes a single file, logging the outcome.
func (b *BatchCompiler) compileOne(ctx context.Context, in, out string) BatchResult {
	start := time.Now()
	result := BatchResult{Input: in, Output: out}

	result.Err = b.compileAndWrite(ctx, in, out)
	result.Duration = time.Since(start)

	if result.Err != nil {
		b.logSkipped(in, result.Err)
		return result
	}
	b.logger.Info(LogMsgFileCompiled,
		zap.String(LogFieldPath, in),
		zap.String(LogFieldOutput, out),
		zap.Duration(LogFieldDuration, result.Duration))
	return result
}

func (b *BatchCompiler) compileAndWrite(ctx context.Context, in, out string) error {
	source, err := os.ReadFile(in)
	if err != nil {
		return NewIOError(ErrMsgReadFailed, in, err)
	}
	html, err := b.engine.CompileString(ctx, string(source))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(out), DefaultDirMode); err != nil {
		return NewIOError(ErrMsgWriteFailed, out, err)
	}
	if err := os.WriteFile(out, []byte(html), DefaultFileMode); err != nil {
		return NewIOError(ErrMsgWriteFailed, out, err)
	}
	return nil
}

func (b *BatchCompiler) logSkipped(in string, err error) {
	fields := []zap.Field{zap.String(LogFieldPath, in)}
	if failure, ok := AsParseFailure(err); ok {
		fields = append(fields,
			zap.String(LogFieldKind, string(failure.Kind)),
			zap.Int(LogFieldLine, failure.Position.Line),
			zap.Int(LogFieldColumn, failure.Position.Column))
	} else {
		fields = append(fields, zap.Error(err))
	}
	b.logger.Warn(LogMsgFileSkipped, fields...)
}

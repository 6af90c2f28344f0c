package main

import (
	"io"
	"os"

	"github.com/itsatony/go-hsml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app holds the streams and state shared by every command of one run.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	verbose    bool

	config *hsml.ProjectConfig
	logger *zap.Logger
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		config: hsml.DefaultProjectConfig(),
		logger: zap.NewNop(),
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               CLIName,
		Short:             HelpRootShort,
		Long:              HelpRootLong,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.configPath, FlagConfig, "", HelpFlagConfig)
	root.PersistentFlags().BoolVarP(&a.verbose, FlagVerbose, FlagVerboseShort, false, HelpFlagVerbose)

	root.AddCommand(a.compileCommand())
	root.AddCommand(a.parseCommand())
	root.AddCommand(a.checkCommand())
	root.AddCommand(a.storeCommand())
	root.AddCommand(a.versionCommand())
	return root
}

// setup loads the project config and builds the logger. An explicit
// --config must exist; hsml.yaml in the working directory is optional.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == CmdNameVersion {
		return nil
	}

	path := a.configPath
	if path == "" {
		if _, err := os.Stat(hsml.DefaultConfigFileName); err == nil {
			path = hsml.DefaultConfigFileName
		}
	}
	if path != "" {
		cfg, err := hsml.LoadProjectConfig(path)
		if err != nil {
			return newExitError(ExitCodeInputError, "", err)
		}
		a.config = cfg
	}

	level, err := a.config.Level()
	if err != nil {
		return newExitError(ExitCodeUsageError, ErrMsgLoggerFailed, err)
	}
	a.logger = newLogger(a.stderr, level, a.verbose)
	if path != "" {
		a.logger.Debug(hsml.LogMsgConfigLoaded, zap.String(hsml.LogFieldPath, path))
	}
	return nil
}

func (a *app) engine() (*hsml.Engine, error) {
	engine, err := hsml.New(a.config.EngineOptions(a.logger)...)
	if err != nil {
		return nil, newExitError(ExitCodeUsageError, "", err)
	}
	return engine, nil
}

func (a *app) batch(engine *hsml.Engine, outputDir string) (*hsml.BatchCompiler, error) {
	cfg := a.config.BatchConfig()
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	batch, err := hsml.NewBatchCompiler(engine, cfg, a.logger)
	if err != nil {
		return nil, newExitError(ExitCodeUsageError, "", err)
	}
	return batch, nil
}

// target returns the path argument, falling back to the configured source.
func (a *app) target(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return a.config.Source
}

func (a *app) close() {
	_ = a.logger.Sync()
}

// newLogger writes JSON at the configured level, or human-readable
// development output at debug level when verbose.
func newLogger(w io.Writer, level zapcore.Level, verbose bool) *zap.Logger {
	if verbose {
		encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		core := zapcore.NewCore(encoder, zapcore.AddSync(w), zapcore.DebugLevel)
		return zap.New(core, zap.Development())
	}
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), level))
}

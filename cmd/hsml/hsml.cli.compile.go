package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/itsatony/go-hsml"
	"github.com/spf13/cobra"
)

func (a *app) compileCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   CmdNameCompile + " [path]",
		Short: HelpCompileShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCompile(cmd.Context(), a.target(args), output)
		},
	}
	cmd.Flags().StringVarP(&output, FlagOutput, FlagOutputShort, "", HelpFlagOutput)
	return cmd
}

// runCompile compiles stdin to stdout, a single file, or a directory tree.
// A file compiles next to its source unless output names a file or "-".
func (a *app) runCompile(ctx context.Context, path, output string) error {
	engine, err := a.engine()
	if err != nil {
		return err
	}

	if path == InputSourceStdin {
		return a.compileToOutput(ctx, engine, path, output)
	}

	info, err := os.Stat(path)
	if err != nil {
		return newExitError(ExitCodeInputError, ErrMsgStatFailed, err)
	}

	if !info.IsDir() {
		if output == OutputStdout {
			return a.compileToOutput(ctx, engine, path, output)
		}
		batch, err := a.batch(engine, "")
		if err != nil {
			return err
		}
		result, err := batch.CompileFile(ctx, path, output)
		if err != nil {
			reportFailure(a.stderr, path, err)
			return reportedError(err)
		}
		fmt.Fprintf(a.stdout, FmtCompiled, result.Input, result.Output)
		return nil
	}

	if output == OutputStdout {
		return newExitError(ExitCodeUsageError, ErrMsgDirOutputStdout, nil)
	}
	batch, err := a.batch(engine, output)
	if err != nil {
		return err
	}
	report, err := batch.CompileDir(ctx, path)
	if err != nil {
		return classify("", err)
	}
	for _, result := range report.Compiled {
		fmt.Fprintf(a.stdout, FmtCompiled, result.Input, result.Output)
	}
	for _, result := range report.Failures {
		reportFailure(a.stderr, result.Input, result.Err)
	}
	fmt.Fprintf(a.stdout, FmtCompileSummary, len(report.Compiled), len(report.Failures))
	return failuresError(report)
}

func (a *app) compileToOutput(ctx context.Context, engine *hsml.Engine, path, output string) error {
	source, err := a.readInput(path)
	if err != nil {
		return err
	}
	html, err := engine.CompileString(ctx, string(source))
	if err != nil {
		reportFailure(a.stderr, displayName(path), err)
		return reportedError(err)
	}
	return a.writeOutput(output, []byte(html))
}

// failuresError returns a parse-failure exit error when any file failed.
func failuresError(report *hsml.BatchReport) error {
	if !report.HasFailures() {
		return nil
	}
	return newExitError(ExitCodeParseFailure, strconv.Itoa(len(report.Failures))+" "+ErrMsgFilesFailed, nil)
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/itsatony/go-hsml"
	"github.com/spf13/cobra"
)

func (a *app) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   CmdNameCheck + " [path]",
		Short: HelpCheckShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd.Context(), a.target(args))
		},
	}
}

// runCheck parses without writing output and reports every failure on
// stdout. Any failure yields the parse-failure exit code.
func (a *app) runCheck(ctx context.Context, path string) error {
	engine, err := a.engine()
	if err != nil {
		return err
	}

	if path == InputSourceStdin {
		source, err := a.readInput(path)
		if err != nil {
			return err
		}
		_, err = engine.Parse(string(source))
		return a.reportSingle(path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return newExitError(ExitCodeInputError, ErrMsgStatFailed, err)
	}
	batch, err := a.batch(engine, "")
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return a.reportSingle(path, batch.CheckFile(ctx, path))
	}

	report, err := batch.CheckDir(ctx, path)
	if err != nil {
		return classify("", err)
	}
	for _, result := range report.Failures {
		reportFailure(a.stdout, result.Input, result.Err)
	}
	fmt.Fprintf(a.stdout, FmtCheckSummary, report.Total(), len(report.Failures))
	return failuresError(report)
}

func (a *app) reportSingle(path string, err error) error {
	if err != nil && !hsml.IsParseFailure(err) {
		return classify("", err)
	}
	failed := 0
	if err != nil {
		reportFailure(a.stdout, displayName(path), err)
		failed = 1
	}
	fmt.Fprintf(a.stdout, FmtCheckSummary, 1, failed)
	if err != nil {
		return reportedError(err)
	}
	return nil
}

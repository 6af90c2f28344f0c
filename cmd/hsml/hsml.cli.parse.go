package main

import (
	"github.com/itsatony/go-hsml"
	"github.com/spf13/cobra"
)

func (a *app) parseCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   CmdNameParse + " <file>",
		Short: HelpParseShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runParse(args[0], format)
		},
	}
	cmd.Flags().StringVarP(&format, FlagFormat, FlagFormatShort, OutputFormatJSON, HelpFlagFormat)
	return cmd
}

// runParse prints the syntax tree of a file or stdin as JSON or YAML.
func (a *app) runParse(path, format string) error {
	if format != OutputFormatJSON && format != OutputFormatYAML {
		return newExitError(ExitCodeUsageError, ErrMsgInvalidFormat, hsml.NewUnknownFormatError(format))
	}

	engine, err := a.engine()
	if err != nil {
		return err
	}
	source, err := a.readInput(path)
	if err != nil {
		return err
	}

	root, err := engine.Parse(string(source))
	if err != nil {
		reportFailure(a.stderr, displayName(path), err)
		return reportedError(err)
	}
	data, err := hsml.Export(root, format)
	if err != nil {
		return classify("", err)
	}
	return a.writeOutput(OutputStdout, data)
}

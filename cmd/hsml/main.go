package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

func main() {
	exitCode := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	os.Exit(exitCode)
}

// run is the main entry point for the CLI, separated for testing
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := newApp(stdin, stdout, stderr)
	defer a.close()

	root := a.rootCommand()
	if args == nil {
		// cobra falls back to os.Args for a nil slice
		args = []string{}
	}
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(context.Background()); err != nil {
		var exitErr *exitError
		if !errors.As(err, &exitErr) || !exitErr.reported {
			fmt.Fprintf(stderr, FmtErrorWithCause, CLIName, err)
		}
		return exitCode(err)
	}
	return ExitCodeSuccess
}

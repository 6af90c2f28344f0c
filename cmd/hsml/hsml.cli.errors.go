package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/itsatony/go-hsml"
)

// exitError carries the process exit code for a command failure.
type exitError struct {
	code     int
	msg      string
	err      error
	reported bool
}

func newExitError(code int, msg string, err error) *exitError {
	return &exitError{code: code, msg: msg, err: err}
}

func (e *exitError) Error() string {
	switch {
	case e.err == nil:
		return e.msg
	case e.msg == "":
		return e.err.Error()
	default:
		return e.msg + ": " + e.err.Error()
	}
}

func (e *exitError) Unwrap() error {
	return e.err
}

// exitCode maps a command error to the process exit code. Errors without
// a code come from cobra's argument and flag parsing.
func exitCode(err error) int {
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	return ExitCodeUsageError
}

// classify attaches the exit code matching a library error.
func classify(msg string, err error) *exitError {
	var pathErr *fs.PathError
	switch {
	case hsml.IsParseFailure(err):
		return newExitError(ExitCodeParseFailure, msg, err)
	case hsml.IsNotFound(err), errors.Is(err, fs.ErrNotExist), errors.As(err, &pathErr):
		return newExitError(ExitCodeInputError, msg, err)
	default:
		return newExitError(ExitCodeError, msg, err)
	}
}

// reportedError classifies a failure already printed by reportFailure so
// run does not print it again.
func reportedError(err error) error {
	exitErr := classify("", err)
	exitErr.reported = true
	return exitErr
}

// reportFailure prints one failure as path:line:column: message.
func reportFailure(w io.Writer, path string, err error) {
	if failure, ok := hsml.AsParseFailure(err); ok {
		fmt.Fprintf(w, FmtFailure, path, failure.Position.Line, failure.Position.Column, failure.Kind.Message())
		return
	}
	fmt.Fprintf(w, FmtErrorWithCause, path, err)
}

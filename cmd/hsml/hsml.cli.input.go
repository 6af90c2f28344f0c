package main

import (
	"io"
	"os"
)

// readInput reads content from a file or stdin
func (a *app) readInput(path string) ([]byte, error) {
	if path == InputSourceStdin {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, newExitError(ExitCodeInputError, ErrMsgReadStdinFailed, err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newExitError(ExitCodeInputError, ErrMsgReadFileFailed, err)
	}
	return data, nil
}

// writeOutput writes content to a file or stdout
func (a *app) writeOutput(path string, data []byte) error {
	var err error
	if path == "" || path == OutputStdout {
		_, err = a.stdout.Write(data)
	} else {
		err = os.WriteFile(path, data, FilePermissions)
	}
	if err != nil {
		return newExitError(ExitCodeError, ErrMsgWriteOutputFailed, err)
	}
	return nil
}

// displayName names an input in reports.
func displayName(path string) string {
	if path == InputSourceStdin {
		return FmtStdinName
	}
	return path
}

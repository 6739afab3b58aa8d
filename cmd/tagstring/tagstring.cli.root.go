package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// exitError carries the exit code and message a failed command reports
type exitError struct {
	code int
	msg  string
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.err)
}

func (e *exitError) Unwrap() error {
	return e.err
}

func newExitError(code int, msg string, err error) error {
	return &exitError{code: code, msg: msg, err: err}
}

// reportError prints err to stderr and maps it to an exit code.
// Errors raised by cobra itself (unknown command, bad flag) are usage errors.
func reportError(err error, stderr io.Writer) int {
	var exitErr *exitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgUsage, err)
		return ExitCodeUsageError
	}
	if exitErr.err == nil {
		fmt.Fprintf(stderr, FmtError, exitErr.msg)
	} else {
		fmt.Fprintf(stderr, FmtErrorWithCause, exitErr.msg, exitErr.err)
	}
	return exitErr.code
}

func newRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           CLIName,
		Short:         CLIDescription,
		Long:          CLILong,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(
		newRenderCommand(),
		newEscapeCommand(),
		newFormattersCommand(),
		newVersionCommand(),
	)
	return root
}

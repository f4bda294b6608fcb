package shell

import (
	"fmt"
	"strings"

	"github.com/cradle-build/cradle/internal/errors"
)

// ProcessExecutionError is returned when a command fails to start or exits with a non-zero code. It carries the
// captured output.
type ProcessExecutionError struct {
	Err        error
	Output     *CmdOutput
	Command    string
	WorkingDir string
	ExitCode   int
}

func (err ProcessExecutionError) Error() string {
	msg := fmt.Sprintf("Failed to execute %q", err.Command)

	if err.WorkingDir != "" {
		msg += " in " + err.WorkingDir
	}

	if err.Output != nil {
		if stderr := strings.TrimSpace(err.Output.Stderr.String()); stderr != "" {
			msg += "\n" + stderr
		}
	}

	return fmt.Sprintf("%s\n%v", msg, err.Err)
}

func (err ProcessExecutionError) ExitStatus() (int, error) {
	if err.ExitCode >= 0 {
		return err.ExitCode, nil
	}

	return GetExitCode(err.Err)
}

func (err ProcessExecutionError) Unwrap() error {
	return err.Err
}

// EmptyCommandError is returned when a command line contains no command.
type EmptyCommandError struct{}

func (err EmptyCommandError) Error() string {
	return "empty command line"
}

// GetExitCode returns the exit code of a command. If the error does not carry an exit status, is not an
// exec.ExitError and is not a MultiError wrapping one, the error is returned.
func GetExitCode(err error) (int, error) {
	var exitStatus interface {
		ExitStatus() (int, error)
	}

	if errors.As(err, &exitStatus) {
		return exitStatus.ExitStatus()
	}

	// Matches *exec.ExitError and cli.ExitCoder.
	var exitErr interface {
		ExitCode() int
	}

	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	var multiErr *errors.MultiError
	if errors.As(err, &multiErr) {
		for _, err := range multiErr.WrappedErrors() {
			exitCode, exitCodeErr := GetExitCode(err)
			if exitCodeErr == nil {
				return exitCode, nil
			}
		}
	}

	return 0, err
}

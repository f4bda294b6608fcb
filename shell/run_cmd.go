// Package shell runs external commands on behalf of build tasks.
package shell

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"sort"

	"github.com/google/shlex"

	"github.com/cradle-build/cradle/internal/errors"
	"github.com/cradle-build/cradle/internal/telemetry"
	"github.com/cradle-build/cradle/pkg/log"
)

// CmdOutput holds the captured output of a finished command.
type CmdOutput struct {
	Stdout bytes.Buffer
	Stderr bytes.Buffer
}

// RunOptions contains the configuration needed to run a command.
type RunOptions struct {
	Env       map[string]string
	Writer    io.Writer
	ErrWriter io.Writer

	// WorkingDir is the directory the command runs in. The process working directory is never changed.
	WorkingDir string

	// UseShell runs the command line through `sh -c` (`cmd /C` on Windows) instead of splitting it into arguments.
	UseShell bool
}

// RunCommand runs the given command line and returns an error if it could not be started or exited with a non-zero code.
func RunCommand(ctx context.Context, l log.Logger, opts *RunOptions, cmdline string) error {
	_, err := RunCommandWithOutput(ctx, l, opts, cmdline)

	return err
}

// RunCommandWithOutput runs the given command line, mirroring its stdout and stderr to the configured writers while
// capturing both.
func RunCommandWithOutput(ctx context.Context, l log.Logger, opts *RunOptions, cmdline string) (*CmdOutput, error) {
	if opts == nil {
		opts = &RunOptions{}
	}

	output := &CmdOutput{}

	command, args, err := splitCommandLine(cmdline, opts.UseShell)
	if err != nil {
		return output, err
	}

	err = telemetry.TelemeterFromContext(ctx).Collect(ctx, "run_command", map[string]any{
		"command": command,
		"dir":     opts.WorkingDir,
	}, func(ctx context.Context) error {
		l.Infof("%s", cmdline)

		var (
			cmdStdout io.Writer = &output.Stdout
			cmdStderr io.Writer = &output.Stderr
		)

		if opts.Writer != nil {
			cmdStdout = io.MultiWriter(opts.Writer, &output.Stdout)
		}

		if opts.ErrWriter != nil {
			cmdStderr = io.MultiWriter(opts.ErrWriter, &output.Stderr)
		}

		cmd := exec.CommandContext(ctx, command, args...)
		cmd.Dir = opts.WorkingDir
		cmd.Env = toEnvVarsList(opts.Env)
		cmd.Stdout = cmdStdout
		cmd.Stderr = cmdStderr

		if err := cmd.Run(); err != nil {
			exitCode := -1

			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				exitCode = exitErr.ExitCode()
			}

			return errors.New(ProcessExecutionError{
				Err:        err,
				Output:     output,
				Command:    cmdline,
				WorkingDir: cmd.Dir,
				ExitCode:   exitCode,
			})
		}

		return nil
	})

	return output, err
}

func splitCommandLine(cmdline string, useShell bool) (string, []string, error) {
	if useShell {
		if runtime.GOOS == "windows" {
			return "cmd", []string{"/C", cmdline}, nil
		}

		return "sh", []string{"-c", cmdline}, nil
	}

	parts, err := shlex.Split(cmdline)
	if err != nil {
		return "", nil, errors.Errorf("invalid command line %q: %w", cmdline, err)
	}

	if len(parts) == 0 {
		return "", nil, errors.New(EmptyCommandError{})
	}

	return parts[0], parts[1:], nil
}

// toEnvVarsList returns the current process environment overridden by the given variables.
func toEnvVarsList(envVars map[string]string) []string {
	environ := os.Environ()

	if len(envVars) == 0 {
		return environ
	}

	keys := make([]string, 0, len(envVars))
	for key := range envVars {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		environ = append(environ, fmt.Sprintf("%s=%s", key, envVars[key]))
	}

	return environ
}

package shell

import (
	"context"

	"github.com/cradle-build/cradle/pkg/log"
	"github.com/cradle-build/cradle/pkg/task"
)

// ExecOption customizes a single command run.
type ExecOption func(*RunOptions)

// WithWorkingDir runs the command in dir.
func WithWorkingDir(dir string) ExecOption {
	return func(opts *RunOptions) {
		opts.WorkingDir = dir
	}
}

// WithShell runs the command line through the system shell.
func WithShell() ExecOption {
	return func(opts *RunOptions) {
		opts.UseShell = true
	}
}

// WithEnv adds environment variables to the command.
func WithEnv(env map[string]string) ExecOption {
	return func(opts *RunOptions) {
		merged := make(map[string]string, len(opts.Env)+len(env))

		for key, val := range opts.Env {
			merged[key] = val
		}

		for key, val := range env {
			merged[key] = val
		}

		opts.Env = merged
	}
}

// Exec runs cmdline with the options stored in ctx, adjusted by opts. The logger is taken from ctx. If a command hook
// is present in ctx, the command is handed to it instead.
func Exec(ctx context.Context, cmdline string, opts ...ExecOption) error {
	runOpts := RunOptionsFromContext(ctx)

	for _, opt := range opts {
		opt(runOpts)
	}

	if hook := CommandHookFromContext(ctx); hook != nil {
		return hook(ctx, runOpts, cmdline)
	}

	return RunCommand(ctx, log.LoggerFromContext(ctx), runOpts, cmdline)
}

// ExecTask returns a task that runs cmdline when executed. An empty name creates an anonymous task.
func ExecTask(name, cmdline string, opts ...ExecOption) *task.Task {
	return task.New(name, func(ctx context.Context, _ *task.Task) error {
		return Exec(ctx, cmdline, opts...)
	})
}

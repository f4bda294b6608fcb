package cli

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/cradle-build/cradle/internal/cache"
	"github.com/cradle-build/cradle/internal/telemetry"
	"github.com/cradle-build/cradle/options"
	"github.com/cradle-build/cradle/pkg/cpp"
	"github.com/cradle-build/cradle/pkg/executor"
	"github.com/cradle-build/cradle/pkg/log"
	"github.com/cradle-build/cradle/shell"
	"github.com/cradle-build/cradle/util"
)

const CommandNameRun = "run"

// NewRunCommand returns the `run` command. Running the app without a command does the same.
func NewRunCommand(opts *options.CradleOptions, build BuildFunc) *cli.Command {
	return &cli.Command{
		Name:      CommandNameRun,
		Usage:     "Run the given tasks and everything they depend on.",
		UsageText: AppName + " [global options] run <task names...>",
		Action:    runAction(opts, build),
	}
}

func runAction(opts *options.CradleOptions, build BuildFunc) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		opts.TaskNames = ctx.Args().Slice()

		return Run(ctx.Context, opts, build)
	}
}

// Run declares the build graph, takes the build lock and executes opts.TaskNames in order. The run summary and
// report are written even when the run fails.
func Run(ctx context.Context, opts *options.CradleOptions, build BuildFunc) error {
	exec, err := newExecutor(ctx, opts, build)
	if err != nil {
		return err
	}

	if len(opts.TaskNames) == 0 {
		opts.Logger.Warnf("No tasks requested. Available tasks: %v", exec.Names())
		return nil
	}

	if path := opts.LockFilePath(); path != "" {
		lockfile, err := util.AcquireLockfile(ctx, path, util.DefaultLockRetryDelay)
		if err != nil {
			return err
		}

		defer func() {
			if err := lockfile.Unlock(); err != nil {
				opts.Logger.Warnf("Unable to unlock %s: %v", path, err)
			}
		}()
	}

	ctx, err = prepareContext(ctx, opts)
	if err != nil {
		return err
	}

	exec.Request(opts.TaskNames...)

	runErr := telemetry.TelemeterFromContext(ctx).Collect(ctx, "cradle_run", map[string]any{
		"run_id":      opts.RunID,
		"tasks":       opts.TaskNames,
		"parallelism": opts.Parallelism,
	}, func(ctx context.Context) error {
		return exec.Run(ctx)
	})

	if !opts.DisableSummary {
		if err := exec.Report().WriteSummary(opts.Writer, shouldColor(opts)); err != nil {
			opts.Logger.Warnf("Unable to write the run summary: %v", err)
		}
	}

	if opts.ReportFile != "" {
		if err := exec.Report().WriteToFile(opts.ReportFile); err != nil {
			opts.Logger.Warnf("Unable to write the run report to %s: %v", opts.ReportFile, err)
		}
	}

	return runErr
}

// newExecutor returns an executor configured from opts holding the tasks declared by build.
func newExecutor(ctx context.Context, opts *options.CradleOptions, build BuildFunc) (*executor.Executor, error) {
	exec := executor.New(
		executor.WithLogger(opts.Logger),
		executor.WithParallelism(opts.Parallelism),
		executor.WithKeepGoing(opts.KeepGoing),
		executor.WithTelemeter(telemetry.TelemeterFromContext(ctx)),
	)

	if err := build(opts, exec); err != nil {
		return nil, err
	}

	return exec, nil
}

// prepareContext stores the run-wide collaborators in ctx: the logger, the header scan cache, the command options
// and the default toolchain and output directory of C++ tasks.
func prepareContext(ctx context.Context, opts *options.CradleOptions) (context.Context, error) {
	toolchain, err := cpp.NewToolchain(opts.Toolchain)
	if err != nil {
		return ctx, err
	}

	ctx = log.ContextWithLogger(ctx, opts.Logger)
	ctx = cache.ContextWithCache(ctx)
	ctx = shell.ContextWithRunOptions(ctx, &shell.RunOptions{
		Env:        opts.Env,
		Writer:     opts.Writer,
		ErrWriter:  opts.ErrWriter,
		WorkingDir: opts.WorkingDir,
	})
	ctx = cpp.ContextWithDefaults(ctx, cpp.Defaults{
		Toolchain: toolchain,
		OutputDir: opts.BuildDir,
	})

	return ctx, nil
}

// Package cli implements the cradle command line: it layers flags, environment and the settings file into
// options, declares the build graph and runs the requested tasks.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/gruntwork-io/go-commons/version"
	hashicorpversion "github.com/hashicorp/go-version"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/cradle-build/cradle/config"
	"github.com/cradle-build/cradle/internal/errors"
	"github.com/cradle-build/cradle/internal/telemetry"
	"github.com/cradle-build/cradle/options"
	"github.com/cradle-build/cradle/pkg/env"
	"github.com/cradle-build/cradle/pkg/log"
	"github.com/cradle-build/cradle/pkg/log/formatters"
	"github.com/cradle-build/cradle/pkg/task"
	"github.com/cradle-build/cradle/util"
)

const AppName = "cradle"

// BuildFunc declares the tasks of a project on the given registrar. The options are final when it is called, so
// paths may be resolved against opts.WorkingDir.
type BuildFunc func(opts *options.CradleOptions, registrar task.Registrar) error

// NewApp creates the cradle CLI App. The build function is called once per command, after the options are
// final.
func NewApp(opts *options.CradleOptions, build BuildFunc) *cli.App {
	app := cli.NewApp()
	app.Name = AppName
	app.Usage = "Builds the tasks declared by this program, in dependency order, skipping up-to-date artifacts."
	app.UsageText = AppName + " [global options] [command] [task names...]"
	app.Version = version.GetVersion()
	app.Writer = opts.Writer
	app.ErrWriter = opts.ErrWriter
	app.Flags = NewGlobalFlags()
	app.Commands = []*cli.Command{
		NewRunCommand(opts, build),
		NewListCommand(opts, build),
		NewGraphCommand(opts, build),
		NewVersionCommand(opts),
	}
	app.Before = beforeRunningCommand(opts)
	app.After = afterRunningCommand(opts)
	app.Action = runAction(opts, build)
	app.HideVersion = true
	// main maps errors to exit codes.
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}

	return app
}

func beforeRunningCommand(opts *options.CradleOptions) cli.BeforeFunc {
	return func(ctx *cli.Context) error {
		if err := initialSetup(ctx, opts); err != nil {
			return err
		}

		tlm, err := telemetry.NewTelemeter(ctx.Context, AppName, ctx.App.Version, opts.Writer, opts.Telemetry)
		if err != nil {
			return err
		}

		ctx.Context = telemetry.ContextWithTelemeter(ctx.Context, tlm)
		ctx.Context = log.ContextWithLogger(ctx.Context, opts.Logger)

		return nil
	}
}

func afterRunningCommand(opts *options.CradleOptions) cli.AfterFunc {
	return func(ctx *cli.Context) error {
		if err := telemetry.TelemeterFromContext(ctx.Context).Shutdown(context.Background()); err != nil {
			opts.Logger.Warnf("Unable to flush telemetry: %v", err)
		}

		return nil
	}
}

// initialSetup merges the flag, settings file and default layers into opts, then configures the logger.
func initialSetup(ctx *cli.Context, opts *options.CradleOptions) error {
	flags := flagsLayer(ctx)

	// --- WorkingDir
	if flags.WorkingDir == "" && opts.WorkingDir == "" {
		workingDir, err := os.Getwd()
		if err != nil {
			return errors.New(err)
		}

		flags.WorkingDir = workingDir
	}

	// --- CradleVersion
	cradleVersion, err := hashicorpversion.NewVersion(ctx.App.Version)
	if err != nil {
		// Malformed version; set the version to 0.0
		if cradleVersion, err = hashicorpversion.NewVersion("0.0"); err != nil {
			return errors.New(err)
		}
	}

	opts.CradleVersion = cradleVersion

	// --- Settings file
	loadOpts := *opts
	if flags.WorkingDir != "" {
		loadOpts.WorkingDir = flags.WorkingDir
	}

	if flags.ConfigPath != "" {
		loadOpts.ConfigPath = flags.ConfigPath
	}

	file, err := config.Load(&loadOpts)
	if err != nil {
		return err
	}

	merged := &options.CradleOptions{}
	if err := config.Apply(merged, flags, file, opts); err != nil {
		return err
	}

	*opts = *merged

	applyBoolFlags(ctx, opts)

	// --- Paths
	if opts.WorkingDir, err = util.CanonicalPath("", opts.WorkingDir); err != nil {
		return err
	}

	if opts.BuildDir, err = util.CanonicalPath(opts.BuildDir, opts.WorkingDir); err != nil {
		return err
	}

	if opts.LockFile != "" {
		if opts.LockFile, err = util.CanonicalPath(opts.LockFile, opts.WorkingDir); err != nil {
			return err
		}
	}

	if opts.ReportFile != "" {
		if opts.ReportFile, err = util.CanonicalPath(opts.ReportFile, opts.WorkingDir); err != nil {
			return err
		}
	}

	if env.IsNoColor(opts.Env) {
		opts.DisableColor = true
	}

	if err := opts.Validate(); err != nil {
		return err
	}

	// --- Logger
	if err := setupLogger(opts); err != nil {
		return err
	}

	opts.Logger.Debugf("Cradle Version: %s", opts.CradleVersion)
	opts.Logger.Debugf("Run ID: %s", opts.RunID)

	return nil
}

func setupLogger(opts *options.CradleOptions) error {
	level, err := log.ParseLevel(opts.LogLevel)
	if err != nil {
		return err
	}

	formatter, err := formatters.ParseFormat(opts.LogFormat)
	if err != nil {
		return err
	}

	if pretty, ok := formatter.(*formatters.PrettyFormatter); ok && (opts.DisableColor || !isTerminal(opts.ErrWriter)) {
		pretty.DisableColors = true
	}

	opts.Logger.SetOptions(log.WithLevel(level), log.WithFormatter(formatter), log.WithOutput(opts.ErrWriter))

	return nil
}

// shouldColor returns true if the run summary written to opts.Writer may use colors.
func shouldColor(opts *options.CradleOptions) bool {
	return !opts.DisableColor && isTerminal(opts.Writer)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

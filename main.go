package main

import (
	"context"
	"os"
	"strconv"

	"github.com/cradle-build/cradle/cli"
	"github.com/cradle-build/cradle/internal/errors"
	"github.com/cradle-build/cradle/internal/os/signal"
	"github.com/cradle-build/cradle/options"
	"github.com/cradle-build/cradle/pkg/cpp"
	"github.com/cradle-build/cradle/pkg/files"
	"github.com/cradle-build/cradle/pkg/log"
	"github.com/cradle-build/cradle/pkg/task"
	"github.com/cradle-build/cradle/shell"
	"github.com/cradle-build/cradle/util"
)

// The main entrypoint builds the sample project under test/fixtures/hello:
//
//	go run . -C test/fixtures/hello main
func main() {
	opts := options.NewCradleOptions()

	defer errors.Recover(checkForErrorsAndExit(opts.Logger))

	app := cli.NewApp(opts, configure)

	ctx, cancel := signal.NotifyContext(context.Background())
	defer cancel()

	ctx = log.ContextWithLogger(ctx, opts.Logger)

	err := app.RunContext(ctx, os.Args)
	if cause := context.Cause(ctx); err != nil && cause != nil {
		err = errors.WithStackTrace(cause)
	}

	checkForErrorsAndExit(opts.Logger)(err)
}

// configure declares a static library built from lib/ and an executable built from main/ that links it.
func configure(opts *options.CradleOptions, registrar task.Registrar) error {
	path := func(elem string) string {
		return util.JoinPath(opts.WorkingDir, elem)
	}

	includeDirs := task.ListOf(files.FileListKey, path("include"))

	lib, err := cpp.NewStaticLibBuilder().
		Name("hello").
		Sources(files.Files(path("lib"), `.*\.cpp`, "")).
		IncludeDirs(includeDirs).
		Build(registrar)
	if err != nil {
		return err
	}

	exe, err := cpp.NewExecutableBuilder().
		Name("main").
		Sources(files.Files(path("main"), `.*\.cpp`, `.*/build\.cpp`)).
		IncludeDirs(includeDirs).
		Libraries(lib).
		Build(registrar)
	if err != nil {
		return err
	}

	return registrar.Register(
		task.New("clean", func(ctx context.Context, _ *task.Task) error {
			log.LoggerFromContext(ctx).Infof("Removing %s", opts.BuildDir)

			if err := os.RemoveAll(opts.BuildDir); err != nil {
				return errors.New(err)
			}

			return nil
		}),
		task.New("hello", func(ctx context.Context, _ *task.Task) error {
			program, err := exe.Get(cpp.OutputFileKey)
			if err != nil {
				return err
			}

			return shell.Exec(ctx, strconv.Quote(program), shell.WithWorkingDir(opts.BuildDir))
		}).DependsOn(exe),
	)
}

// If there is an error, display it in the console and exit with a non-zero exit code. Otherwise, exit 0.
func checkForErrorsAndExit(logger log.Logger) func(error) {
	return func(err error) {
		if err == nil {
			os.Exit(0)
		}

		logger.Error(err.Error())

		if errStack := errors.ErrorStack(err); errStack != "" {
			logger.Trace(errStack)
		}

		// exit with the underlying error code
		exitCode, exitCodeErr := shell.GetExitCode(err)
		if exitCodeErr != nil || exitCode == 0 {
			exitCode = 1
		}

		os.Exit(exitCode)
	}
}

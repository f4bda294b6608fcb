// Package options provides the set of options that configure a cradle run.
package options

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hashicorp/go-version"

	"github.com/cradle-build/cradle/internal/errors"
	"github.com/cradle-build/cradle/internal/telemetry"
	"github.com/cradle-build/cradle/pkg/cpp"
	"github.com/cradle-build/cradle/pkg/env"
	"github.com/cradle-build/cradle/pkg/log"
	"github.com/cradle-build/cradle/pkg/log/formatters"
)

const (
	DefaultBuildDir    = cpp.DefaultBuildDir
	DefaultConfigPath  = "cradle.hcl"
	DefaultLockFile    = ".cradle.lock"
	DefaultParallelism = 1
	DefaultLogLevel    = "info"
	DefaultLogFormat   = formatters.PrettyFormatterName
)

// CradleOptions represents options that configure the behavior of a cradle run.
type CradleOptions struct {
	// Writer and ErrWriter receive the output of the commands run by tasks.
	Writer    io.Writer
	ErrWriter io.Writer

	// Logger is built from LogLevel, LogFormat and DisableColor before the run.
	Logger log.Logger

	// Telemetry configures the trace and metric exporters.
	Telemetry *telemetry.Options

	// CradleVersion is the version of the running binary, checked against `cradle_version_constraint`.
	CradleVersion *version.Version

	// Env holds the environment of the process, used by `get_env` in the config file and passed to commands.
	Env map[string]string

	// Toolchain selects and tunes the C++ toolchain used by tasks that were not given one.
	Toolchain cpp.ToolchainSettings

	// RunID identifies this run in logs and traces.
	RunID string

	// WorkingDir is the directory relative paths of the options are resolved against.
	WorkingDir string

	// BuildDir is the directory artifacts are written to.
	BuildDir string

	// ConfigPath is the settings file. A missing file at the default location is not an error.
	ConfigPath string

	// LockFile is taken for the duration of the run. Defaults to `<build-dir>/.cradle.lock`.
	LockFile string

	// ReportFile receives the run report, as CSV when the extension is `.csv` and JSON otherwise.
	ReportFile string

	LogLevel  string
	LogFormat string

	// TaskNames are the tasks requested on the command line, in order.
	TaskNames []string

	// Parallelism bounds the number of actions running at once. 1 keeps the depth-first reference order.
	Parallelism int

	// KeepGoing runs every requested task even after one of them failed.
	KeepGoing bool

	DisableColor bool

	// DisableLock skips taking LockFile.
	DisableLock bool

	// DisableSummary skips the run summary printed at the end.
	DisableSummary bool
}

// NewCradleOptions returns options holding the default values.
func NewCradleOptions() *CradleOptions {
	return &CradleOptions{
		Writer:      os.Stdout,
		ErrWriter:   os.Stderr,
		Logger:      log.Default(),
		Telemetry:   &telemetry.Options{},
		Env:         env.Parse(os.Environ()),
		RunID:       uuid.NewString(),
		BuildDir:    DefaultBuildDir,
		ConfigPath:  DefaultConfigPath,
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
		Parallelism: DefaultParallelism,
	}
}

// NewCradleOptionsForTest returns default options rooted at workingDir that log nowhere.
func NewCradleOptionsForTest(workingDir string) *CradleOptions {
	opts := NewCradleOptions()
	opts.WorkingDir = workingDir
	opts.Writer = io.Discard
	opts.ErrWriter = io.Discard
	opts.Logger = log.New(log.WithOutput(io.Discard))

	return opts
}

// LockFilePath returns the lock file to take, or an empty string if locking is disabled.
func (opts *CradleOptions) LockFilePath() string {
	if opts.DisableLock {
		return ""
	}

	if opts.LockFile != "" {
		return opts.LockFile
	}

	return filepath.ToSlash(filepath.Join(opts.BuildDir, DefaultLockFile))
}

// Validate checks the values that cannot be corrected silently.
func (opts *CradleOptions) Validate() error {
	if opts.Parallelism < 1 {
		return errors.New(InvalidParallelismError{Parallelism: opts.Parallelism})
	}

	if _, err := log.ParseLevel(opts.LogLevel); err != nil {
		return err
	}

	if _, err := formatters.ParseFormat(opts.LogFormat); err != nil {
		return err
	}

	return nil
}

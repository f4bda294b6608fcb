// Package config loads the optional `cradle.hcl` settings file and layers it under the command line.
//
// The file only tunes a run, it never describes the task graph:
//
//	cradle_version_constraint = ">= 0.1"
//	build_dir   = "out"
//	parallelism = 4
//
//	toolchain {
//	  family   = "gnu"
//	  compiler = get_env("CXX", "clang++")
//	}
package config

import (
	"os"
	"path/filepath"

	"github.com/hashicorp/go-version"
	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/cradle-build/cradle/internal/errors"
	"github.com/cradle-build/cradle/internal/telemetry"
	"github.com/cradle-build/cradle/options"
	"github.com/cradle-build/cradle/util"
)

// Settings is the decoded content of a settings file. Nil fields are not set by the file.
type Settings struct {
	CradleVersionConstraint *string            `hcl:"cradle_version_constraint,optional"`
	BuildDir                *string            `hcl:"build_dir,optional"`
	LockFile                *string            `hcl:"lock_file,optional"`
	ReportFile              *string            `hcl:"report_file,optional"`
	LogLevel                *string            `hcl:"log_level,optional"`
	LogFormat               *string            `hcl:"log_format,optional"`
	Parallelism             *int               `hcl:"parallelism,optional"`
	KeepGoing               *bool              `hcl:"keep_going,optional"`
	DisableLock             *bool              `hcl:"disable_lock,optional"`
	Toolchain               *ToolchainSettings `hcl:"toolchain,block"`
	Telemetry               *TelemetrySettings `hcl:"telemetry,block"`
}

// ToolchainSettings is the `toolchain` block.
type ToolchainSettings struct {
	Family       *string  `hcl:"family,optional"`
	Compiler     *string  `hcl:"compiler,optional"`
	Archiver     *string  `hcl:"archiver,optional"`
	Linker       *string  `hcl:"linker,optional"`
	CompileFlags []string `hcl:"compile_flags,optional"`
	LinkFlags    []string `hcl:"link_flags,optional"`
	ArchiveFlags []string `hcl:"archive_flags,optional"`
}

// TelemetrySettings is the `telemetry` block.
type TelemetrySettings struct {
	TraceExporter             *string `hcl:"trace_exporter,optional"`
	TraceExporterHTTPEndpoint *string `hcl:"trace_exporter_http_endpoint,optional"`
	MetricExporter            *string `hcl:"metric_exporter,optional"`
}

// LoadFile decodes the settings file at path. The file may call `get_env`, which reads env.
func LoadFile(path string, env map[string]string) (*Settings, error) {
	settings := &Settings{}

	if err := hclsimple.DecodeFile(path, NewEvalContext(env), settings); err != nil {
		return nil, errors.New(ParseError{Path: path, Err: err})
	}

	return settings, nil
}

// Load reads the settings file named by opts.ConfigPath, relative to opts.WorkingDir, checks its version constraint
// against opts.CradleVersion and returns the options layer it describes. A missing file is only an error when it is
// not the default one; nil is returned when there is nothing to load.
func Load(opts *options.CradleOptions) (*options.CradleOptions, error) {
	if opts.ConfigPath == "" {
		return nil, nil
	}

	path, err := util.CanonicalPath(opts.ConfigPath, opts.WorkingDir)
	if err != nil {
		return nil, err
	}

	if !util.IsFile(path) {
		if opts.ConfigPath == options.DefaultConfigPath {
			opts.Logger.Debugf("No %s found, using defaults", options.DefaultConfigPath)
			return nil, nil
		}

		return nil, errors.New(MissingConfigError{Path: path})
	}

	opts.Logger.Debugf("Loading settings from %s", path)

	settings, err := LoadFile(path, opts.Env)
	if err != nil {
		return nil, err
	}

	if err := settings.CheckVersionConstraint(opts.CradleVersion); err != nil {
		return nil, err
	}

	return settings.ToOptions(filepath.Dir(path))
}

// ToOptions returns an options layer holding only the values set in the file. Relative paths are resolved against
// the directory of the file, and `~` expands to the home directory.
func (settings *Settings) ToOptions(configDir string) (*options.CradleOptions, error) {
	layer := &options.CradleOptions{}

	var err error

	if settings.BuildDir != nil {
		if layer.BuildDir, err = util.CanonicalPath(*settings.BuildDir, configDir); err != nil {
			return nil, err
		}
	}

	if settings.LockFile != nil {
		if layer.LockFile, err = util.CanonicalPath(*settings.LockFile, configDir); err != nil {
			return nil, err
		}
	}

	if settings.ReportFile != nil {
		if layer.ReportFile, err = util.CanonicalPath(*settings.ReportFile, configDir); err != nil {
			return nil, err
		}
	}

	layer.LogLevel = deref(settings.LogLevel)
	layer.LogFormat = deref(settings.LogFormat)
	layer.Parallelism = deref(settings.Parallelism)
	layer.KeepGoing = deref(settings.KeepGoing)
	layer.DisableLock = deref(settings.DisableLock)

	if toolchain := settings.Toolchain; toolchain != nil {
		layer.Toolchain.Family = deref(toolchain.Family)
		layer.Toolchain.Compiler = deref(toolchain.Compiler)
		layer.Toolchain.Archiver = deref(toolchain.Archiver)
		layer.Toolchain.Linker = deref(toolchain.Linker)
		layer.Toolchain.CompileFlags = toolchain.CompileFlags
		layer.Toolchain.LinkFlags = toolchain.LinkFlags
		layer.Toolchain.ArchiveFlags = toolchain.ArchiveFlags
	}

	if tlm := settings.Telemetry; tlm != nil {
		layer.Telemetry = &telemetry.Options{
			TraceExporter:             deref(tlm.TraceExporter),
			TraceExporterHTTPEndpoint: deref(tlm.TraceExporterHTTPEndpoint),
			MetricExporter:            deref(tlm.MetricExporter),
		}
	}

	return layer, nil
}

// CheckVersionConstraint returns an error if current does not satisfy the file's `cradle_version_constraint`.
func (settings *Settings) CheckVersionConstraint(current *version.Version) error {
	if settings.CradleVersionConstraint == nil || current == nil {
		return nil
	}

	return CheckVersionConstraint(current, *settings.CradleVersionConstraint)
}

// CheckVersionConstraint returns an error if current does not satisfy constraint.
func CheckVersionConstraint(current *version.Version, constraint string) error {
	versionConstraint, err := version.NewConstraint(constraint)
	if err != nil {
		return errors.New(err)
	}

	if !versionConstraint.Check(current) {
		return errors.New(InvalidCradleVersionError{CurrentVersion: current, VersionConstraints: versionConstraint})
	}

	return nil
}

func deref[T any](ptr *T) T {
	var zero T

	if ptr == nil {
		return zero
	}

	return *ptr
}

func lookupEnv(env map[string]string, name string) (string, bool) {
	if env != nil {
		val, ok := env[name]
		return val, ok
	}

	return os.LookupEnv(name)
}

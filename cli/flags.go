package cli

import (
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/cradle-build/cradle/internal/telemetry"
	"github.com/cradle-build/cradle/options"
	"github.com/cradle-build/cradle/pkg/cpp"
)

const (
	EnvVarPrefix = "CRADLE_"

	FlagNameWorkingDir     = "working-dir"
	FlagNameBuildDir       = "build-dir"
	FlagNameConfig         = "config"
	FlagNameParallelism    = "parallelism"
	FlagNameKeepGoing      = "keep-going"
	FlagNameLogLevel       = "log-level"
	FlagNameLogFormat      = "log-format"
	FlagNameNoColor        = "no-color"
	FlagNameLockFile       = "lock-file"
	FlagNameNoLock         = "no-lock"
	FlagNameReportFile     = "report-file"
	FlagNameNoSummary      = "no-summary"
	FlagNameToolchain      = "toolchain"
	FlagNameCompiler       = "cxx"
	FlagNameArchiver       = "ar"
	FlagNameLinker         = "linker"
	FlagNameCompileFlags   = "compile-flag"
	FlagNameLinkFlags      = "link-flag"
	FlagNameTraceExporter  = "telemetry-trace-exporter"
	FlagNameTraceEndpoint  = "telemetry-trace-exporter-http-endpoint"
	FlagNameMetricExporter = "telemetry-metric-exporter"
	FlagNameTraceParent    = "traceparent"
)

// envVars returns the `CRADLE_*` variable of a flag followed by any extra names.
func envVars(flagName string, extra ...string) []string {
	name := EnvVarPrefix + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))

	return append([]string{name}, extra...)
}

// NewGlobalFlags returns the flags shared by every command.
func NewGlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    FlagNameWorkingDir,
			Aliases: []string{"C"},
			EnvVars: envVars(FlagNameWorkingDir),
			Usage:   "The directory relative paths are resolved against. Defaults to the current directory.",
		},
		&cli.StringFlag{
			Name:    FlagNameBuildDir,
			EnvVars: envVars(FlagNameBuildDir),
			Usage:   "The directory build artifacts are written to.",
			Value:   options.DefaultBuildDir,
		},
		&cli.StringFlag{
			Name:    FlagNameConfig,
			EnvVars: envVars(FlagNameConfig),
			Usage:   "The settings file. A missing " + options.DefaultConfigPath + " is ignored.",
			Value:   options.DefaultConfigPath,
		},
		&cli.IntFlag{
			Name:    FlagNameParallelism,
			Aliases: []string{"j"},
			EnvVars: envVars(FlagNameParallelism),
			Usage:   "The maximum number of actions running at once.",
			Value:   options.DefaultParallelism,
		},
		&cli.BoolFlag{
			Name:    FlagNameKeepGoing,
			Aliases: []string{"k"},
			EnvVars: envVars(FlagNameKeepGoing),
			Usage:   "Run every requested task even after one of them failed.",
		},
		&cli.StringFlag{
			Name:    FlagNameLogLevel,
			EnvVars: envVars(FlagNameLogLevel),
			Usage:   "Sets the logging level: error, warn, info, debug, trace.",
			Value:   options.DefaultLogLevel,
		},
		&cli.StringFlag{
			Name:    FlagNameLogFormat,
			EnvVars: envVars(FlagNameLogFormat),
			Usage:   "Sets the log format: pretty, key-value, json.",
			Value:   options.DefaultLogFormat,
		},
		&cli.BoolFlag{
			Name:    FlagNameNoColor,
			EnvVars: envVars(FlagNameNoColor),
			Usage:   "Disables colors in logs and in the run summary.",
		},
		&cli.StringFlag{
			Name:    FlagNameLockFile,
			EnvVars: envVars(FlagNameLockFile),
			Usage:   "The file locked for the duration of the run. Defaults to <build-dir>/" + options.DefaultLockFile + ".",
		},
		&cli.BoolFlag{
			Name:    FlagNameNoLock,
			EnvVars: envVars(FlagNameNoLock),
			Usage:   "Do not lock the build directory.",
		},
		&cli.StringFlag{
			Name:    FlagNameReportFile,
			EnvVars: envVars(FlagNameReportFile),
			Usage:   "Writes the run report to this file, as CSV for a .csv extension and JSON otherwise.",
		},
		&cli.BoolFlag{
			Name:    FlagNameNoSummary,
			EnvVars: envVars(FlagNameNoSummary),
			Usage:   "Do not print the run summary.",
		},
		&cli.StringFlag{
			Name:    FlagNameToolchain,
			EnvVars: envVars(FlagNameToolchain),
			Usage:   "The C++ toolchain family: gnu, gcc, clang, msvc. Defaults to the platform toolchain.",
		},
		&cli.StringFlag{
			Name:    FlagNameCompiler,
			EnvVars: envVars(FlagNameCompiler, cpp.CompilerEnvVar),
			Usage:   "The C++ compiler command.",
		},
		&cli.StringFlag{
			Name:    FlagNameArchiver,
			EnvVars: envVars(FlagNameArchiver, cpp.ArchiverEnvVar),
			Usage:   "The static library archiver command.",
		},
		&cli.StringFlag{
			Name:    FlagNameLinker,
			EnvVars: envVars(FlagNameLinker),
			Usage:   "The linker command, only used by the msvc toolchain.",
		},
		&cli.StringSliceFlag{
			Name:    FlagNameCompileFlags,
			EnvVars: envVars(FlagNameCompileFlags),
			Usage:   "An extra flag passed to the compiler. May be repeated.",
		},
		&cli.StringSliceFlag{
			Name:    FlagNameLinkFlags,
			EnvVars: envVars(FlagNameLinkFlags),
			Usage:   "An extra flag passed to the linker. May be repeated.",
		},
		&cli.StringFlag{
			Name:    FlagNameTraceExporter,
			EnvVars: envVars(FlagNameTraceExporter),
			Usage:   "Trace exporter: none, console, otlpHttp, otlpGrpc, http.",
		},
		&cli.StringFlag{
			Name:    FlagNameTraceEndpoint,
			EnvVars: envVars(FlagNameTraceEndpoint),
			Usage:   "The endpoint of the http trace exporter.",
		},
		&cli.StringFlag{
			Name:    FlagNameMetricExporter,
			EnvVars: envVars(FlagNameMetricExporter),
			Usage:   "Metric exporter: none, console, otlpHttp, grpcHttp.",
		},
		&cli.StringFlag{
			Name:    FlagNameTraceParent,
			EnvVars: []string{"TRACEPARENT"},
			Usage:   "W3C trace parent of the run's root span.",
			Hidden:  true,
		},
	}
}

// flagsLayer returns an options layer holding only the flags set on the command line or through the environment.
// Boolean flags are left out, see applyBoolFlags.
func flagsLayer(ctx *cli.Context) *options.CradleOptions {
	layer := &options.CradleOptions{}

	setString := func(name string, dst *string) {
		if ctx.IsSet(name) {
			*dst = ctx.String(name)
		}
	}

	setString(FlagNameWorkingDir, &layer.WorkingDir)
	setString(FlagNameBuildDir, &layer.BuildDir)
	setString(FlagNameConfig, &layer.ConfigPath)
	setString(FlagNameLogLevel, &layer.LogLevel)
	setString(FlagNameLogFormat, &layer.LogFormat)
	setString(FlagNameLockFile, &layer.LockFile)
	setString(FlagNameReportFile, &layer.ReportFile)
	setString(FlagNameToolchain, &layer.Toolchain.Family)
	setString(FlagNameCompiler, &layer.Toolchain.Compiler)
	setString(FlagNameArchiver, &layer.Toolchain.Archiver)
	setString(FlagNameLinker, &layer.Toolchain.Linker)

	if ctx.IsSet(FlagNameParallelism) {
		layer.Parallelism = ctx.Int(FlagNameParallelism)
	}

	if ctx.IsSet(FlagNameCompileFlags) {
		layer.Toolchain.CompileFlags = ctx.StringSlice(FlagNameCompileFlags)
	}

	if ctx.IsSet(FlagNameLinkFlags) {
		layer.Toolchain.LinkFlags = ctx.StringSlice(FlagNameLinkFlags)
	}

	tlm := &telemetry.Options{}
	setString(FlagNameTraceExporter, &tlm.TraceExporter)
	setString(FlagNameTraceEndpoint, &tlm.TraceExporterHTTPEndpoint)
	setString(FlagNameMetricExporter, &tlm.MetricExporter)
	setString(FlagNameTraceParent, &tlm.TraceParent)

	if *tlm != (telemetry.Options{}) {
		layer.Telemetry = tlm
	}

	return layer
}

// applyBoolFlags writes the boolean flags set on the command line or through the environment onto opts. It runs after
// the layers are merged because a false value is indistinguishable from an unset one there, so `--keep-going=false`
// could otherwise never turn off `keep_going = true` from the settings file.
func applyBoolFlags(ctx *cli.Context, opts *options.CradleOptions) {
	for name, dst := range map[string]*bool{
		FlagNameKeepGoing: &opts.KeepGoing,
		FlagNameNoColor:   &opts.DisableColor,
		FlagNameNoLock:    &opts.DisableLock,
		FlagNameNoSummary: &opts.DisableSummary,
	} {
		if ctx.IsSet(name) {
			*dst = ctx.Bool(name)
		}
	}
}

// Package cpp builds C++ objects, static libraries and executables out of tasks. Libraries and executables are
// expansions: their action reads the discovered sources and attaches the compile, archive and link tasks as
// followers.
package cpp

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/cradle-build/cradle/util"
)

const (
	// OutputFileKey holds the path of the artifact a task produced.
	OutputFileKey = "OUTPUT_FILE"
	// LibraryNameKey holds the name of a built library, as passed to the linker.
	LibraryNameKey = "LIBRARY_NAME"
	// LibraryPathKey holds the directory a built library was written to.
	LibraryPathKey = "LIBRARY_PATH"

	// DefaultBuildDir is used when neither the task nor the context names an output directory.
	DefaultBuildDir = "build"
)

// Option configures the tasks created by this package.
type Option func(*config)

// WithOutputDir writes artifacts under dir instead of the run's build directory.
func WithOutputDir(dir string) Option {
	return func(cfg *config) {
		cfg.outputDir = dir
	}
}

// WithToolchain uses toolchain instead of the run's toolchain.
func WithToolchain(toolchain Toolchain) Option {
	return func(cfg *config) {
		cfg.toolchain = toolchain
	}
}

type config struct {
	toolchain Toolchain
	outputDir string
}

func newConfig(opts []Option) *config {
	cfg := &config{}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// resolve returns the toolchain and output directory to use, falling back to the defaults carried by ctx.
func (cfg *config) resolve(ctx context.Context) (Toolchain, string) {
	defaults := DefaultsFromContext(ctx)

	toolchain, outputDir := cfg.toolchain, cfg.outputDir

	if toolchain == nil {
		toolchain = defaults.Toolchain
	}

	if outputDir == "" {
		outputDir = defaults.OutputDir
	}

	return toolchain, outputDir
}

type ctxKey byte

const defaultsContextKey ctxKey = iota

// Defaults are the toolchain and output directory used by tasks that were not given their own.
type Defaults struct {
	Toolchain Toolchain
	OutputDir string
}

// ContextWithDefaults returns a context carrying the run's defaults.
func ContextWithDefaults(ctx context.Context, defaults Defaults) context.Context {
	return context.WithValue(ctx, defaultsContextKey, defaults)
}

// DefaultsFromContext returns the defaults stored in ctx, filling the gaps with PlatformDefault and DefaultBuildDir.
func DefaultsFromContext(ctx context.Context) Defaults {
	defaults, _ := ctx.Value(defaultsContextKey).(Defaults)

	if defaults.Toolchain == nil {
		defaults.Toolchain = PlatformDefault()
	}

	if defaults.OutputDir == "" {
		defaults.OutputDir = DefaultBuildDir
	}

	return defaults
}

// objectOutputPath mirrors the source path under outputDir. Volume names, leading slashes and parent references are
// neutralized so that objects always land inside outputDir.
func objectOutputPath(outputDir, objectFile string) string {
	objectFile = filepath.ToSlash(strings.TrimPrefix(objectFile, filepath.VolumeName(objectFile)))

	parts := strings.Split(objectFile, "/")
	kept := parts[:0]

	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			part = "__"
		}

		kept = append(kept, part)
	}

	return util.JoinPath(append([]string{outputDir}, kept...)...)
}

package cpp

import (
	"context"
	"slices"

	"github.com/cradle-build/cradle/pkg/files"
	"github.com/cradle-build/cradle/pkg/log"
	"github.com/cradle-build/cradle/pkg/task"
	"github.com/cradle-build/cradle/shell"
	"github.com/cradle-build/cradle/util"
)

// LinkTaskName returns the name of the task linking executable name.
func LinkTaskName(name string) string {
	return name + ":link"
}

// Link returns a task linking the outputs of objects into the executable exeName. Libraries are resolved against
// libraryPaths; libraries that cannot be found, such as system libraries, are left to the linker and skipped by the
// staleness check. The linker only runs when the executable is older than an object or a resolved library.
func Link(taskName, exeName string, objects []*task.Task, includeDirs, libraries, libraryPaths []string, opts ...Option) *task.Task {
	cfg := newConfig(opts)
	objects = slices.Clone(objects)
	includeDirs = slices.Clone(includeDirs)
	libraries = slices.Clone(libraries)
	libraryPaths = slices.Clone(libraryPaths)

	link := task.New(taskName, func(ctx context.Context, self *task.Task) error {
		toolchain, outputDir := cfg.resolve(ctx)
		output := util.JoinPath(outputDir, toolchain.ExecutableName(exeName))

		self.Set(OutputFileKey, output)

		objectFiles, err := outputFiles(objects)
		if err != nil {
			return err
		}

		inputs := slices.Clone(objectFiles)

		for _, lib := range libraries {
			path, _ := util.ResolveFile(toolchain.StaticLibName(lib), libraryPaths)
			inputs = append(inputs, path)
		}

		stale, err := util.IsTargetOlderThan(output, inputs...)
		if err != nil {
			return err
		}

		if !stale {
			log.LoggerFromContext(ctx).Debugf("%s is up to date", output)
			return nil
		}

		if err := util.EnsureParentDirectory(output); err != nil {
			return err
		}

		return shell.Exec(ctx, toolchain.LinkExeCmd(output, objectFiles, includeDirs, libraries, libraryPaths))
	})

	return link.DependsOn(objects...)
}

// Executable returns a task named name building an executable out of the FILE_LIST of sources, compiled with the
// FILE_LIST of includeDirs, and linked against libraries. Each library task must provide LIBRARY_NAME and
// LIBRARY_PATH, as StaticLib does. A nil includeDirs means no include directories.
//
// The task is an expansion: when it runs, it creates one object task per source and the `<name>:link` task,
// registers them with the running executor and attaches the link task as a follower. OUTPUT_FILE is copied back
// onto the executable task.
func Executable(name string, sources, includeDirs *task.Task, libraries []*task.Task, opts ...Option) *task.Task {
	return newExecutable(&ExecutableBuilder{
		name:      name,
		libraries: libraries,
		opts:      opts,
	}, sources, includeDirs)
}

func newExecutable(builder *ExecutableBuilder, sources, includeDirs *task.Task) *task.Task {
	if includeDirs == nil {
		includeDirs = task.EmptyList(files.FileListKey)
	}

	var (
		name          = builder.name
		opts          = slices.Clone(builder.opts)
		libraries     = slices.Clone(builder.libraries)
		linkLibraries = builder.linkLibraries
		libraryPaths  = builder.libraryPaths
	)

	exe := task.New(name, func(ctx context.Context, self *task.Task) error {
		sourceFiles, err := sources.GetList(files.FileListKey)
		if err != nil {
			return err
		}

		dirs, err := includeDirs.GetList(files.FileListKey)
		if err != nil {
			return err
		}

		libNames, libPaths, err := linkInputs(libraries, linkLibraries, libraryPaths)
		if err != nil {
			return err
		}

		objects := make([]*task.Task, 0, len(sourceFiles))
		for _, source := range sourceFiles {
			objects = append(objects, Object(name, source, dirs, opts...))
		}

		link := Link(LinkTaskName(name), name, objects, dirs, libNames, libPaths, opts...)

		if err := task.Register(ctx, append(objects, link)...); err != nil {
			return err
		}

		self.FollowedBy(link, propagate(self, link, OutputFileKey))

		return nil
	})

	exe.DependsOn(sources, includeDirs, linkLibraries, libraryPaths)

	return exe.DependsOn(libraries...)
}

// linkInputs collects library names and search paths: first the scalar keys of the library tasks, then the lists of
// the optional linkLibraries and libraryPaths tasks. Search paths are deduplicated.
func linkInputs(libraries []*task.Task, linkLibraries, libraryPaths *task.Task) ([]string, []string, error) {
	var names, paths []string

	for _, lib := range libraries {
		name, err := lib.Get(LibraryNameKey)
		if err != nil {
			return nil, nil, err
		}

		path, err := lib.Get(LibraryPathKey)
		if err != nil {
			return nil, nil, err
		}

		names = append(names, name)
		paths = append(paths, path)
	}

	if linkLibraries != nil {
		list, err := linkLibraries.GetList(LibraryNameKey)
		if err != nil {
			return nil, nil, err
		}

		names = append(names, list...)
	}

	if libraryPaths != nil {
		list, err := libraryPaths.GetList(LibraryPathKey)
		if err != nil {
			return nil, nil, err
		}

		paths = append(paths, list...)
	}

	return names, util.RemoveDuplicatesFromList(paths), nil
}

// ExecutableBuilder assembles an Executable task.
type ExecutableBuilder struct {
	linkLibraries *task.Task
	libraryPaths  *task.Task
	name          string
	sources       []*task.Task
	includeDirs   []*task.Task
	libraries     []*task.Task
	opts          []Option
}

// NewExecutableBuilder returns an empty executable builder.
func NewExecutableBuilder() *ExecutableBuilder {
	return &ExecutableBuilder{}
}

func (builder *ExecutableBuilder) Name(name string) *ExecutableBuilder {
	builder.name = name
	return builder
}

// Sources adds tasks providing FILE_LIST entries to compile.
func (builder *ExecutableBuilder) Sources(sources ...*task.Task) *ExecutableBuilder {
	builder.sources = append(builder.sources, sources...)
	return builder
}

// IncludeDirs adds tasks providing FILE_LIST entries used as include directories.
func (builder *ExecutableBuilder) IncludeDirs(dirs ...*task.Task) *ExecutableBuilder {
	builder.includeDirs = append(builder.includeDirs, dirs...)
	return builder
}

// Libraries adds library tasks providing LIBRARY_NAME and LIBRARY_PATH, typically built by StaticLib.
func (builder *ExecutableBuilder) Libraries(libs ...*task.Task) *ExecutableBuilder {
	builder.libraries = append(builder.libraries, libs...)
	return builder
}

// LinkLibraries sets a task providing a LIBRARY_NAME list, for libraries not built by this program.
func (builder *ExecutableBuilder) LinkLibraries(libs *task.Task) *ExecutableBuilder {
	builder.linkLibraries = libs
	return builder
}

// LibraryPaths sets a task providing a LIBRARY_PATH list of library search directories.
func (builder *ExecutableBuilder) LibraryPaths(paths *task.Task) *ExecutableBuilder {
	builder.libraryPaths = paths
	return builder
}

func (builder *ExecutableBuilder) Options(opts ...Option) *ExecutableBuilder {
	builder.opts = append(builder.opts, opts...)
	return builder
}

// Build validates the builder and returns the executable task. If registrar is not nil, the task is registered.
func (builder *ExecutableBuilder) Build(registrar task.Registrar) (*task.Task, error) {
	if builder.name == "" {
		return nil, task.MissingBuilderFieldError{Builder: "exe", Field: "name"}
	}

	if len(builder.sources) == 0 {
		return nil, task.MissingBuilderFieldError{Builder: "exe", Field: "sources"}
	}

	exe := newExecutable(builder, mergeFileLists(builder.sources), mergeFileLists(builder.includeDirs))

	if registrar != nil {
		if err := registrar.Register(exe); err != nil {
			return nil, err
		}
	}

	return exe, nil
}

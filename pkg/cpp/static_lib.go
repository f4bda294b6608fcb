package cpp

import (
	"context"
	"path/filepath"
	"slices"

	"github.com/cradle-build/cradle/pkg/files"
	"github.com/cradle-build/cradle/pkg/log"
	"github.com/cradle-build/cradle/pkg/task"
	"github.com/cradle-build/cradle/shell"
	"github.com/cradle-build/cradle/util"
)

// ArchiveTaskName returns the name of the task archiving the objects of library name.
func ArchiveTaskName(name string) string {
	return name + ":archive"
}

// Archive returns a task archiving the outputs of objects into the static library libName. It depends on objects,
// stores LIBRARY_NAME, LIBRARY_PATH and OUTPUT_FILE, and only runs the archiver when the library is older than one
// of the objects.
func Archive(taskName, libName string, objects []*task.Task, opts ...Option) *task.Task {
	cfg := newConfig(opts)
	objects = slices.Clone(objects)

	archive := task.New(taskName, func(ctx context.Context, self *task.Task) error {
		toolchain, outputDir := cfg.resolve(ctx)
		output := util.JoinPath(outputDir, toolchain.StaticLibName(libName))

		self.Set(LibraryNameKey, libName)
		self.Set(LibraryPathKey, filepath.ToSlash(filepath.Dir(output)))
		self.Set(OutputFileKey, output)

		objectFiles, err := outputFiles(objects)
		if err != nil {
			return err
		}

		stale, err := util.IsTargetOlderThan(output, objectFiles...)
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

		return shell.Exec(ctx, toolchain.ArchiveCmd(output, objectFiles))
	})

	return archive.DependsOn(objects...)
}

// StaticLib returns a task named name building a static library out of the FILE_LIST of sources, compiled with the
// FILE_LIST of includeDirs as include directories. A nil includeDirs means no include directories.
//
// The task is an expansion: when it runs, it creates one object task per source and the `<name>:archive` task,
// registers them with the running executor, and attaches the archive as a follower. A second follower copies
// LIBRARY_NAME, LIBRARY_PATH and OUTPUT_FILE from the archive onto the library task, so that dependents can link
// against it.
func StaticLib(name string, sources, includeDirs *task.Task, opts ...Option) *task.Task {
	if includeDirs == nil {
		includeDirs = task.EmptyList(files.FileListKey)
	}

	lib := task.New(name, func(ctx context.Context, self *task.Task) error {
		sourceFiles, err := sources.GetList(files.FileListKey)
		if err != nil {
			return err
		}

		dirs, err := includeDirs.GetList(files.FileListKey)
		if err != nil {
			return err
		}

		objects := make([]*task.Task, 0, len(sourceFiles))
		for _, source := range sourceFiles {
			objects = append(objects, Object(name, source, dirs, opts...))
		}

		archive := Archive(ArchiveTaskName(name), name, objects, opts...)

		if err := task.Register(ctx, append(objects, archive)...); err != nil {
			return err
		}

		self.FollowedBy(archive, propagate(self, archive, LibraryNameKey, LibraryPathKey, OutputFileKey))

		return nil
	})

	return lib.DependsOn(sources, includeDirs)
}

// propagate returns an anonymous task copying the given scalar keys from src onto dst.
func propagate(dst, src *task.Task, keys ...string) *task.Task {
	return task.Anonymous(func(context.Context, *task.Task) error {
		for _, key := range keys {
			val, err := src.Get(key)
			if err != nil {
				return err
			}

			dst.Set(key, val)
		}

		return nil
	})
}

// StaticLibBuilder assembles a StaticLib task, merging several source and include-directory tasks into one.
type StaticLibBuilder struct {
	name        string
	sources     []*task.Task
	includeDirs []*task.Task
	opts        []Option
}

// NewStaticLibBuilder returns an empty static library builder.
func NewStaticLibBuilder() *StaticLibBuilder {
	return &StaticLibBuilder{}
}

func (builder *StaticLibBuilder) Name(name string) *StaticLibBuilder {
	builder.name = name
	return builder
}

// Sources adds tasks providing FILE_LIST entries to compile.
func (builder *StaticLibBuilder) Sources(sources ...*task.Task) *StaticLibBuilder {
	builder.sources = append(builder.sources, sources...)
	return builder
}

// IncludeDirs adds tasks providing FILE_LIST entries used as include directories.
func (builder *StaticLibBuilder) IncludeDirs(dirs ...*task.Task) *StaticLibBuilder {
	builder.includeDirs = append(builder.includeDirs, dirs...)
	return builder
}

func (builder *StaticLibBuilder) Options(opts ...Option) *StaticLibBuilder {
	builder.opts = append(builder.opts, opts...)
	return builder
}

// Build validates the builder and returns the library task. If registrar is not nil, the task is registered.
func (builder *StaticLibBuilder) Build(registrar task.Registrar) (*task.Task, error) {
	if builder.name == "" {
		return nil, task.MissingBuilderFieldError{Builder: "static_lib", Field: "name"}
	}

	if len(builder.sources) == 0 {
		return nil, task.MissingBuilderFieldError{Builder: "static_lib", Field: "sources"}
	}

	lib := StaticLib(builder.name, mergeFileLists(builder.sources), mergeFileLists(builder.includeDirs), builder.opts...)

	if registrar != nil {
		if err := registrar.Register(lib); err != nil {
			return nil, err
		}
	}

	return lib, nil
}

// mergeFileLists returns the single task as is, or an anonymous task concatenating the FILE_LIST of all of them.
func mergeFileLists(tasks []*task.Task) *task.Task {
	switch len(tasks) {
	case 0:
		return nil
	case 1:
		return tasks[0]
	}

	return task.MergeLists("", files.FileListKey, tasks...)
}

package cpp_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cradle-build/cradle/internal/cache"
	"github.com/cradle-build/cradle/pkg/cpp"
	"github.com/cradle-build/cradle/pkg/executor"
	"github.com/cradle-build/cradle/pkg/files"
	"github.com/cradle-build/cradle/pkg/log"
	"github.com/cradle-build/cradle/pkg/task"
	"github.com/cradle-build/cradle/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder stands in for the compiler: it records every command line and creates the file named after `-o` or `rcs`.
type recorder struct {
	mu       sync.Mutex
	commands []string
}

func (rec *recorder) run(_ context.Context, _ *shell.RunOptions, cmdline string) error {
	rec.mu.Lock()
	rec.commands = append(rec.commands, cmdline)
	rec.mu.Unlock()

	args := strings.Fields(cmdline)
	for i, arg := range args {
		if (arg == "-o" || arg == "rcs") && i+1 < len(args) {
			return os.WriteFile(args[i+1], []byte(cmdline), 0644)
		}
	}

	return nil
}

func (rec *recorder) take() []string {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	commands := rec.commands
	rec.commands = nil

	return commands
}

type project struct {
	root  string
	build string
	rec   *recorder
}

func newProject(t *testing.T, paths ...string) *project {
	t.Helper()

	root := filepath.ToSlash(t.TempDir())

	for _, path := range paths {
		full := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte("// "+path), 0644))
	}

	return &project{root: root, build: root + "/build", rec: &recorder{}}
}

func (p *project) context() context.Context {
	ctx := log.ContextWithLogger(context.Background(), log.New(log.WithOutput(io.Discard)))
	ctx = cache.ContextWithCache(ctx)
	ctx = shell.ContextWithCommandHook(ctx, p.rec.run)

	return cpp.ContextWithDefaults(ctx, cpp.Defaults{
		Toolchain: &cpp.GNU{Compiler: "g++", Archiver: "ar"},
		OutputDir: p.build,
	})
}

// setTimes sets the modification time of every file under the project to modTime.
func (p *project) setTimes(t *testing.T, modTime time.Time) {
	t.Helper()

	err := filepath.Walk(p.root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		return os.Chtimes(path, modTime, modTime)
	})
	require.NoError(t, err)
}

func touch(t *testing.T, path string, modTime time.Time) {
	t.Helper()
	require.NoError(t, os.Chtimes(path, modTime, modTime))
}

func newExecutor() *executor.Executor {
	return executor.New(executor.WithLogger(log.New(log.WithOutput(io.Discard))))
}

func TestStaticLibExpansion(t *testing.T) {
	t.Parallel()

	p := newProject(t, "lib/a.cpp", "lib/b.cpp", "lib/lib.hpp")
	now := time.Now().Truncate(time.Second)

	buildLib := func() (*executor.Executor, *task.Task) {
		lib := cpp.StaticLib("lib", files.Files(p.root+"/lib", ".*\\.cpp", ""), task.ListOf(files.FileListKey, p.root+"/lib"))

		exec := newExecutor()
		exec.MustRegister(lib)

		require.NoError(t, exec.Execute(p.context(), lib))

		return exec, lib
	}

	exec, lib := buildLib()

	commands := p.rec.take()
	require.Len(t, commands, 3)
	assert.True(t, strings.HasPrefix(commands[0], "g++ -c "+p.root+"/lib/a.cpp -I"+p.root+"/lib -o "))
	assert.True(t, strings.HasPrefix(commands[1], "g++ -c "+p.root+"/lib/b.cpp"))
	assert.True(t, strings.HasPrefix(commands[2], "ar rcs "+p.build+"/liblib.a "))

	name, err := lib.Get(cpp.LibraryNameKey)
	require.NoError(t, err)
	assert.Equal(t, "lib", name)

	libPath, err := lib.Get(cpp.LibraryPathKey)
	require.NoError(t, err)
	assert.Equal(t, p.build, libPath)

	output, err := lib.Get(cpp.OutputFileKey)
	require.NoError(t, err)
	assert.Equal(t, p.build+"/liblib.a", output)

	for _, name := range []string{"lib:archive", cpp.ObjectTaskName("lib", p.root+"/lib/a.cpp"), cpp.ObjectTaskName("lib", p.root+"/lib/b.cpp")} {
		_, ok := exec.Lookup(name)
		assert.True(t, ok, "%s must be registered by the expansion", name)
	}

	// One source up to date, one stale: only the stale one is compiled, and the archive still sees both objects.
	p.setTimes(t, now.Add(-time.Hour))
	touch(t, p.root+"/lib/b.cpp", now)

	_, _ = buildLib()

	commands = p.rec.take()
	require.Len(t, commands, 2)
	assert.Contains(t, commands[0], "-c "+p.root+"/lib/b.cpp")
	assert.Contains(t, commands[1], "a.cpp.o")
	assert.Contains(t, commands[1], "b.cpp.o")

	// Everything up to date: nothing runs.
	p.setTimes(t, now.Add(-time.Hour))
	touch(t, p.root+"/lib/a.cpp", now.Add(-2*time.Hour))
	touch(t, p.root+"/lib/b.cpp", now.Add(-2*time.Hour))
	touch(t, p.root+"/lib/lib.hpp", now.Add(-2*time.Hour))

	_, _ = buildLib()
	assert.Empty(t, p.rec.take())

	// A newer header recompiles every object.
	touch(t, p.root+"/lib/lib.hpp", now)

	_, _ = buildLib()

	commands = p.rec.take()
	require.Len(t, commands, 3)
}

func TestExecutableLinksLibraries(t *testing.T) {
	t.Parallel()

	p := newProject(t, "lib/math.cpp", "main/main.cpp", "main/build.cpp", "include/math.hpp")

	lib, err := cpp.NewStaticLibBuilder().
		Name("math").
		Sources(files.Files(p.root+"/lib", ".*\\.cpp", "")).
		IncludeDirs(task.ListOf(files.FileListKey, p.root+"/include")).
		Build(nil)
	require.NoError(t, err)

	exe, err := cpp.NewExecutableBuilder().
		Name("main").
		Sources(files.Files(p.root+"/main", ".*\\.cpp", ".*/build\\.cpp")).
		IncludeDirs(task.ListOf(files.FileListKey, p.root+"/include"), task.ListOf(files.FileListKey, p.root+"/lib")).
		Libraries(lib).
		LinkLibraries(task.ListOf(cpp.LibraryNameKey, "pthread")).
		Build(nil)
	require.NoError(t, err)

	exec := newExecutor()
	exec.MustRegister(lib, exe)
	exec.Request("main")

	require.NoError(t, exec.Run(p.context()))

	commands := p.rec.take()
	require.Len(t, commands, 4)
	assert.Contains(t, commands[0], p.root+"/lib/math.cpp")
	assert.Contains(t, commands[1], "ar rcs "+p.build+"/libmath.a")
	assert.Contains(t, commands[2], "-c "+p.root+"/main/main.cpp -I"+p.root+"/include -I"+p.root+"/lib -o")
	assert.True(t, strings.HasPrefix(commands[3], "g++ -I"+p.root+"/include -I"+p.root+"/lib -L"+p.build+" "))
	assert.True(t, strings.HasSuffix(commands[3], " -lmath -lpthread -o "+p.build+"/main"))

	output, err := exe.Get(cpp.OutputFileKey)
	require.NoError(t, err)
	assert.Equal(t, p.build+"/main", output)

	_, ok := exec.Lookup("main:link")
	assert.True(t, ok)

	// A rebuilt library relinks the executable without recompiling it.
	now := time.Now().Truncate(time.Second)
	p.setTimes(t, now.Add(-time.Hour))
	touch(t, p.build+"/libmath.a", now)

	lib2, err := cpp.NewStaticLibBuilder().
		Name("math").
		Sources(files.Files(p.root+"/lib", ".*\\.cpp", "")).
		IncludeDirs(task.ListOf(files.FileListKey, p.root+"/include")).
		Build(nil)
	require.NoError(t, err)

	exe2 := cpp.Executable("main", files.Files(p.root+"/main", ".*\\.cpp", ".*/build\\.cpp"), nil, []*task.Task{lib2})

	exec = newExecutor()
	exec.MustRegister(lib2, exe2)

	require.NoError(t, exec.Execute(p.context(), exe2))

	commands = p.rec.take()
	require.Len(t, commands, 1)
	assert.Contains(t, commands[0], "-lmath -o "+p.build+"/main")
}

func TestBuildersValidateRequiredFields(t *testing.T) {
	t.Parallel()

	_, err := cpp.NewStaticLibBuilder().Sources(task.EmptyList(files.FileListKey)).Build(nil)
	assert.Equal(t, task.MissingBuilderFieldError{Builder: "static_lib", Field: "name"}, err)

	_, err = cpp.NewStaticLibBuilder().Name("lib").Build(nil)
	assert.Equal(t, task.MissingBuilderFieldError{Builder: "static_lib", Field: "sources"}, err)

	_, err = cpp.NewExecutableBuilder().Name("main").Build(nil)
	assert.Equal(t, task.MissingBuilderFieldError{Builder: "exe", Field: "sources"}, err)

	exec := newExecutor()

	exe, err := cpp.NewExecutableBuilder().Name("main").Sources(task.EmptyList(files.FileListKey)).Build(exec)
	require.NoError(t, err)

	registered, ok := exec.Lookup("main")
	require.True(t, ok)
	assert.Same(t, exe, registered)
}

func TestLibraryWithoutKeysFailsLink(t *testing.T) {
	t.Parallel()

	p := newProject(t, "main/main.cpp")

	notALib := task.New("not-a-lib", nil)
	exe := cpp.Executable("main", files.Files(p.root+"/main", "", ""), nil, []*task.Task{notALib})

	exec := newExecutor()
	exec.MustRegister(exe, notALib)

	err := exec.Execute(p.context(), exe)
	require.Error(t, err)
	assert.ErrorIs(t, err, task.ErrMissingKey)
	assert.Empty(t, p.rec.take())
}

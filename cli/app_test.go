package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cradle-build/cradle/cli"
	"github.com/cradle-build/cradle/internal/errors"
	"github.com/cradle-build/cradle/options"
	"github.com/cradle-build/cradle/pkg/cpp"
	"github.com/cradle-build/cradle/pkg/executor"
	"github.com/cradle-build/cradle/pkg/log"
	"github.com/cradle-build/cradle/pkg/task"
	"github.com/cradle-build/cradle/util"
)

// testBuild declares `build` depending on `compile`, plus a `broken` task that always fails, and records the order
// in which actions run.
type testBuild struct {
	mu      sync.Mutex
	ran     []string
	options *options.CradleOptions
}

func (b *testBuild) record(name string) task.Action {
	return func(_ context.Context, _ *task.Task) error {
		b.mu.Lock()
		defer b.mu.Unlock()

		b.ran = append(b.ran, name)

		return nil
	}
}

func (b *testBuild) configure(opts *options.CradleOptions, registrar task.Registrar) error {
	b.options = opts

	compile := task.New("compile", b.record("compile"))
	build := task.New("build", b.record("build")).DependsOn(compile)
	broken := task.New("broken", func(_ context.Context, _ *task.Task) error {
		return errors.New("broken on purpose")
	})

	return registrar.Register(compile, build, broken)
}

type testApp struct {
	dir    string
	stdout *bytes.Buffer
	build  *testBuild
	opts   *options.CradleOptions
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	dir := t.TempDir()
	opts := options.NewCradleOptionsForTest(dir)

	stdout := new(bytes.Buffer)
	opts.Writer = stdout

	return &testApp{dir: dir, stdout: stdout, build: &testBuild{}, opts: opts}
}

func (app *testApp) run(args ...string) error {
	ctx := log.ContextWithLogger(context.Background(), app.opts.Logger)

	return cli.NewApp(app.opts, app.build.configure).RunContext(ctx, append([]string{cli.AppName}, args...))
}

func TestRunCommand(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	require.NoError(t, app.run("--no-color", "run", "build"))
	assert.Equal(t, []string{"compile", "build"}, app.build.ran)
	assert.Equal(t, []string{"build"}, app.opts.TaskNames)
	assert.Contains(t, app.stdout.String(), "Run Summary")
	assert.FileExists(t, filepath.Join(app.dir, options.DefaultBuildDir, options.DefaultLockFile))
}

func TestRunIsTheDefaultAction(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	require.NoError(t, app.run("--no-lock", "--no-summary", "compile", "build"))
	assert.Equal(t, []string{"compile", "build"}, app.build.ran)
	assert.Empty(t, app.stdout.String())
	assert.NoFileExists(t, filepath.Join(app.dir, options.DefaultBuildDir, options.DefaultLockFile))
}

func TestRunWithoutTasks(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	require.NoError(t, app.run("--no-lock"))
	assert.Empty(t, app.build.ran)
}

func TestRunFailure(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	err := app.run("--no-lock", "--no-summary", "broken", "build")
	require.Error(t, err)
	assert.ErrorAs(t, err, &executor.ActionFailedError{})
	assert.Empty(t, app.build.ran, "the run stops at the first failed request")
}

func TestRunKeepGoing(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	err := app.run("--no-lock", "--no-summary", "-k", "broken", "build")
	require.Error(t, err)
	assert.Equal(t, []string{"compile", "build"}, app.build.ran)
}

func TestRunUnknownTask(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	err := app.run("--no-lock", "nope")
	assert.ErrorAs(t, err, &executor.UnknownTaskError{})
}

func TestRunWritesReport(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	require.NoError(t, app.run("--no-lock", "--no-summary", "--report-file", "out/report.json", "build"))

	content, err := os.ReadFile(filepath.Join(app.dir, "out", "report.json"))
	require.NoError(t, err)
	assert.Contains(t, string(content), `"Name": "compile"`)
	assert.Contains(t, string(content), `"Name": "build"`)
}

func TestListCommand(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	require.NoError(t, app.run("list"))
	assert.Equal(t, "compile\nbuild\nbroken\n", app.stdout.String())
	assert.Empty(t, app.build.ran)
}

func TestGraphCommand(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	require.NoError(t, app.run("graph", "build"))

	dot := app.stdout.String()
	assert.True(t, strings.HasPrefix(dot, "digraph {"))
	assert.Contains(t, dot, `"build" -> "compile"`)
	assert.NotContains(t, dot, "broken")
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	require.NoError(t, app.run("version"))
	assert.True(t, strings.HasPrefix(app.stdout.String(), cli.AppName+" version"))
}

func TestSettingsFileLayering(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	settings := `
parallelism = 3
build_dir   = "out"
keep_going  = true

toolchain {
  family = "gnu"
  linker = "lld"
}
`
	require.NoError(t, os.WriteFile(filepath.Join(app.dir, options.DefaultConfigPath), []byte(settings), 0644))

	require.NoError(t, app.run("--no-lock", "--no-summary", "--keep-going=false", "-j", "2", "build"))

	opts := app.build.options
	require.NotNil(t, opts)
	assert.Equal(t, 2, opts.Parallelism, "flags win over the settings file")
	assert.False(t, opts.KeepGoing, "a false boolean flag wins over the settings file")
	assert.True(t, opts.DisableLock)
	assert.Equal(t, util.JoinPath(util.CleanPath(app.dir), "out"), opts.BuildDir)
	assert.Equal(t, cpp.GNUFamily, opts.Toolchain.Family)
	assert.Equal(t, "lld", opts.Toolchain.Linker)
	assert.Equal(t, options.DefaultLogLevel, opts.LogLevel)
}

func TestSettingsFileBooleanWithoutFlag(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	require.NoError(t, os.WriteFile(filepath.Join(app.dir, options.DefaultConfigPath), []byte("keep_going = true\n"), 0644))
	require.NoError(t, app.run("--no-lock", "--no-summary", "build"))

	require.NotNil(t, app.build.options)
	assert.True(t, app.build.options.KeepGoing)
}

func TestMissingExplicitSettingsFile(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	err := app.run("--config", "missing.hcl", "build")
	require.Error(t, err)
	assert.Empty(t, app.build.ran)
}

func TestInvalidParallelism(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	err := app.run("-j", "0", "build")
	assert.ErrorAs(t, err, &options.InvalidParallelismError{})
}

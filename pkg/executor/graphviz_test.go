package executor_test

import (
	"bytes"
	"testing"

	"github.com/cradle-build/cradle/pkg/executor"
	"github.com/cradle-build/cradle/pkg/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDot(t *testing.T) {
	t.Parallel()

	lib := task.New("lib", nil)
	app := task.New("app", nil).DependsOn(lib)
	app.FollowedBy(task.New("install", nil))

	exec := newExecutor()
	require.NoError(t, exec.Register(lib, app))

	var buf bytes.Buffer
	require.NoError(t, exec.WriteDot(&buf, "app"))

	expected := `digraph {
	"app";
	"app" -> "lib";
	"app" -> "install" [style=dashed];
	"lib";
	"install";
}
`
	assert.Equal(t, expected, buf.String())

	err := exec.WriteDot(&buf, "missing")

	var unknownErr executor.UnknownTaskError
	require.ErrorAs(t, err, &unknownErr)
}

package task_test

import (
	"context"
	"testing"

	"github.com/cradle-build/cradle/pkg/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeFirstWriterWins(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	x, y := task.Value("k", "1"), task.Value("k", "2")
	y.Push("files", "b.cpp")
	x.Push("files", "a.cpp")

	z := task.Merge("z", x, y)
	assert.Equal(t, []*task.Task{x, y}, z.Dependencies())

	for _, tsk := range []*task.Task{x, y, z} {
		require.NoError(t, tsk.Execute(ctx))
	}

	val, err := z.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "1", val)

	files, err := z.GetList("files")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.cpp"}, files)
}

func TestCopyNonConflictingKeepsDestination(t *testing.T) {
	t.Parallel()

	dst, src := task.Anonymous(nil), task.Anonymous(nil)
	dst.Set("OUTPUT_FILE", "mine")
	src.Set("OUTPUT_FILE", "theirs")
	src.Set("LIBRARY_NAME", "lib")
	dst.EnsureList("FILE_LIST")
	src.Push("FILE_LIST", "x")

	task.CopyNonConflicting(dst, src)

	out, _ := dst.Get("OUTPUT_FILE")
	name, _ := dst.Get("LIBRARY_NAME")
	list, _ := dst.GetList("FILE_LIST")

	assert.Equal(t, "mine", out)
	assert.Equal(t, "lib", name)
	assert.Empty(t, list)
}

func TestMergeLists(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	a := task.ListOf("FILE_LIST", "include")
	b := task.ListOf("FILE_LIST", "test", "vendor")
	c := task.EmptyList("FILE_LIST")
	merged := task.MergeLists("", "FILE_LIST", a, b, c)

	for _, tsk := range []*task.Task{a, b, c, merged} {
		require.NoError(t, tsk.Execute(ctx))
	}

	list, err := merged.GetList("FILE_LIST")
	require.NoError(t, err)
	assert.Equal(t, []string{"include", "test", "vendor"}, list)
}

func TestMergeListsMissingSource(t *testing.T) {
	t.Parallel()

	merged := task.MergeLists("", "FILE_LIST", task.Anonymous(nil))

	err := merged.Execute(context.Background())
	require.ErrorIs(t, err, task.ErrMissingKey)
}

package task_test

import (
	"context"
	"strings"
	"testing"

	"github.com/cradle-build/cradle/internal/errors"
	"github.com/cradle-build/cradle/pkg/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreNamespacesAreIndependent(t *testing.T) {
	t.Parallel()

	tsk := task.Anonymous(nil)
	tsk.Set("k", "scalar")
	tsk.Push("k", "a", "b")

	val, err := tsk.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "scalar", val)

	list, err := tsk.GetList("k")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, list)

	tsk.Push("only-list", "x")
	assert.False(t, tsk.Store().Has("only-list"))

	_, err = tsk.Get("only-list")
	require.ErrorIs(t, err, task.ErrMissingKey)
}

func TestMissingKey(t *testing.T) {
	t.Parallel()

	tsk := task.New("lib", nil)

	_, err := tsk.Get("OUTPUT_FILE")
	require.Error(t, err)

	var missingErr task.MissingKeyError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, "lib", missingErr.Task)
	assert.Equal(t, "OUTPUT_FILE", missingErr.Key)
	assert.False(t, missingErr.List)

	_, err = tsk.GetList("FILE_LIST")
	require.ErrorAs(t, err, &missingErr)
	assert.True(t, missingErr.List)
	assert.Contains(t, err.Error(), `list key "FILE_LIST" is not set`)
}

func TestEnsureList(t *testing.T) {
	t.Parallel()

	tsk := task.Anonymous(nil)
	tsk.EnsureList("libs")
	tsk.Push("libs", "m")
	tsk.EnsureList("libs")

	list, err := tsk.GetList("libs")
	require.NoError(t, err)
	assert.Equal(t, []string{"m"}, list)
	assert.Equal(t, []string{"libs"}, tsk.Store().ListKeys())
	assert.Empty(t, tsk.Store().Keys())
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	t.Parallel()

	tsk := task.Anonymous(nil)
	tsk.Set("a", "1")
	tsk.Push("l", "x")

	snapshot := tsk.Store().Snapshot()
	snapshot.Scalars["a"] = "2"
	snapshot.Lists["l"][0] = "y"

	val, _ := tsk.Get("a")
	list, _ := tsk.GetList("l")
	assert.Equal(t, "1", val)
	assert.Equal(t, []string{"x"}, list)
}

func TestIDOfAnonymousTask(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "b", task.New("b", nil).ID())
	assert.True(t, strings.HasPrefix(task.Anonymous(nil).ID(), "<anonymous@0x"))
}

func TestEdgesBumpGeneration(t *testing.T) {
	t.Parallel()

	a, b := task.New("a", nil), task.New("b", nil)

	before := task.Generation()
	a.DependsOn(b)
	a.FollowedBy(b, nil)

	assert.GreaterOrEqual(t, task.Generation(), before+2)
	assert.Equal(t, []*task.Task{b}, a.Dependencies())
	assert.Equal(t, []*task.Task{b}, a.Followers())
}

func TestExecuteRecoversPanic(t *testing.T) {
	t.Parallel()

	tsk := task.New("boom", func(context.Context, *task.Task) error {
		panic("kaboom")
	})

	err := tsk.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
	assert.True(t, errors.ContainsStackTrace(err))
}

func TestExecuteRunsActionEveryCall(t *testing.T) {
	t.Parallel()

	var calls int

	tsk := task.Anonymous(task.Func(func() error {
		calls++
		return nil
	}))

	require.NoError(t, tsk.Execute(context.Background()))
	require.NoError(t, tsk.Execute(context.Background()))
	assert.Equal(t, 2, calls)
}

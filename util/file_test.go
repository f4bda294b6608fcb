package util_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cradle-build/cradle/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalPath(t *testing.T) {
	t.Parallel()

	root := filepath.ToSlash(t.TempDir())

	testCases := []struct {
		path     string
		basePath string
		expected string
	}{
		{"", root + "/foo", root + "/foo"},
		{".", root + "/foo", root + "/foo"},
		{"bar", root + "/foo", root + "/foo/bar"},
		{"bar/baz/blah", root + "/foo", root + "/foo/bar/baz/blah"},
		{"bar/../blah", root + "/foo", root + "/foo/blah"},
		{"bar/.././../baz", root + "/foo", root + "/baz"},
		{"a/b/../c/d/..", root + "/foo/../baz/.", root + "/baz/a/c"},
		{root + "/other/../blah", root + "/foo", root + "/blah"},
	}

	for _, tc := range testCases {
		actual, err := util.CanonicalPath(tc.path, tc.basePath)
		require.NoError(t, err, "Unexpected error for path %s and basePath %s", tc.path, tc.basePath)
		assert.Equal(t, tc.expected, actual, "For path %s and basePath %s", tc.path, tc.basePath)
	}
}

func TestEnsureParentDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "build", "obj", "main.o")

	require.NoError(t, util.EnsureParentDirectory(target))
	assert.True(t, util.IsDir(filepath.Join(dir, "build", "obj")))
	assert.True(t, util.FileNotExists(target))

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	err := util.EnsureDirectory(file)
	require.Error(t, err)

	var notDir util.PathIsNotDirectory
	assert.ErrorAs(t, err, &notDir)
}

func TestResolveFile(t *testing.T) {
	t.Parallel()

	first := filepath.ToSlash(t.TempDir())
	second := filepath.ToSlash(t.TempDir())

	require.NoError(t, os.WriteFile(filepath.Join(second, "libm.a"), nil, 0644))

	path, found := util.ResolveFile("libm.a", []string{first, second})
	assert.True(t, found)
	assert.Equal(t, second+"/libm.a", path)

	path, found = util.ResolveFile("libc.a", []string{first, second})
	assert.False(t, found)
	assert.Equal(t, "libc.a", path)
}

func TestGlobCanonicalPath(t *testing.T) {
	t.Parallel()

	dir := filepath.ToSlash(t.TempDir())

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a", "b"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a", "x.h"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a", "b", "y.h"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a", "b", "z.cpp"), nil, 0644))

	paths, err := util.GlobCanonicalPath(dir, "**/*.h", "missing/**/*.h")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{dir + "/a/x.h", dir + "/a/b/y.h"}, paths)
}

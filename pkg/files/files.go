// Package files provides tasks that discover source files on disk.
package files

import (
	"context"
	"io/fs"
	"path/filepath"
	"regexp"

	"github.com/cradle-build/cradle/internal/errors"
	"github.com/cradle-build/cradle/pkg/log"
	"github.com/cradle-build/cradle/pkg/task"
	"github.com/cradle-build/cradle/util"
)

const (
	// FileListKey is the list key the discovered paths are pushed to.
	FileListKey = "FILE_LIST"

	// MatchAll is the default include pattern.
	MatchAll = ".*"
	// MatchNothing is the default exclude pattern.
	MatchNothing = "a^"
)

// Files returns an anonymous task that walks dir recursively and pushes to FILE_LIST every file whose full path
// matches the include pattern and does not match the exclude pattern. Patterns must match the whole path. Empty
// patterns fall back to MatchAll and MatchNothing.
func Files(dir, include, exclude string) *task.Task {
	return NamedFiles("", dir, include, exclude)
}

// NamedFiles is like Files but returns a task with the given name.
func NamedFiles(name, dir, include, exclude string) *task.Task {
	if include == "" {
		include = MatchAll
	}

	if exclude == "" {
		exclude = MatchNothing
	}

	return task.New(name, func(ctx context.Context, self *task.Task) error {
		paths, err := Find(dir, include, exclude)
		if err != nil {
			return err
		}

		log.LoggerFromContext(ctx).Debugf("Found %d files in %s", len(paths), dir)

		self.EnsureList(FileListKey)
		self.Push(FileListKey, paths...)

		return nil
	})
}

// Find walks dir in lexical order and returns the paths of the files matching include and not matching exclude.
func Find(dir, include, exclude string) ([]string, error) {
	includeRe, err := compileFullMatch(include)
	if err != nil {
		return nil, err
	}

	excludeRe, err := compileFullMatch(exclude)
	if err != nil {
		return nil, err
	}

	if !util.IsDir(dir) {
		return nil, errors.New(util.PathIsNotDirectory{Path: dir})
	}

	var paths []string

	err = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			return nil
		}

		path = filepath.ToSlash(path)

		if includeRe.MatchString(path) && !excludeRe.MatchString(path) {
			paths = append(paths, path)
		}

		return nil
	})
	if err != nil {
		return nil, errors.New(err)
	}

	return paths, nil
}

func compileFullMatch(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, errors.Errorf("invalid file pattern %q: %w", pattern, err)
	}

	return re, nil
}

// Package util contains file system helpers shared by the build collaborators.
package util

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-zglob"
	homedir "github.com/mitchellh/go-homedir"

	"github.com/cradle-build/cradle/internal/errors"
)

// DefaultDirPermissions is the mode of the output directories created by a build.
const DefaultDirPermissions = 0755

// stat returns the file info of path, or nil when it cannot be read.
func stat(path string) os.FileInfo {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}

	return info
}

func FileExists(path string) bool {
	return stat(path) != nil
}

// FileNotExists is not the negation of FileExists: it is false when path cannot be read for another reason.
func FileNotExists(path string) bool {
	_, err := os.Stat(path)
	return os.IsNotExist(err)
}

func IsDir(path string) bool {
	info := stat(path)
	return info != nil && info.IsDir()
}

func IsFile(path string) bool {
	info := stat(path)
	return info != nil && !info.IsDir()
}

// ModTime returns the modification time of path. A missing path is reported by the second value, not as an error.
func ModTime(path string) (time.Time, bool, error) {
	info, err := os.Stat(path)

	switch {
	case err == nil:
		return info.ModTime(), true, nil
	case os.IsNotExist(err):
		return time.Time{}, false, nil
	default:
		return time.Time{}, false, errors.New(err)
	}
}

// EnsureDirectory creates path and its parents unless it already is a directory.
func EnsureDirectory(path string) error {
	if info := stat(path); info != nil {
		if !info.IsDir() {
			return errors.New(PathIsNotDirectory{Path: path})
		}

		return nil
	}

	if err := os.MkdirAll(path, DefaultDirPermissions); err != nil {
		return errors.New(err)
	}

	return nil
}

// EnsureParentDirectory creates the directory a file at path will be written to.
func EnsureParentDirectory(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		return EnsureDirectory(dir)
	}

	return nil
}

// CanonicalPath returns path as a clean absolute path with forward slashes. A relative path is resolved against
// basePath and a leading `~` is expanded to the home directory. Canonical paths can be compared as strings.
func CanonicalPath(path string, basePath string) (string, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return "", errors.New(err)
	}

	if !filepath.IsAbs(path) {
		path = JoinPath(basePath, path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", errors.New(err)
	}

	return CleanPath(absPath), nil
}

// GlobCanonicalPath expands globPaths relative to basePath, where `**` matches any number of directories. A glob
// whose base directory does not exist matches nothing.
func GlobCanonicalPath(basePath string, globPaths ...string) ([]string, error) {
	if len(globPaths) == 0 {
		return []string{}, nil
	}

	basePath, err := CanonicalPath("", basePath)
	if err != nil {
		return nil, err
	}

	var paths []string

	for _, globPath := range globPaths {
		if !filepath.IsAbs(globPath) {
			globPath = filepath.Join(basePath, globPath)
		}

		matches, err := zglob.Glob(globPath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}

			return nil, errors.New(err)
		}

		paths = append(paths, matches...)
	}

	for i := range paths {
		paths[i] = CleanPath(paths[i])
	}

	return paths, nil
}

// ResolveFile looks for the given file name in each of the search paths in order and returns the first existing match.
// The second value is false if the file was not found in any of them.
func ResolveFile(name string, searchPaths []string) (string, bool) {
	if filepath.IsAbs(name) {
		return name, FileExists(name)
	}

	for _, dir := range searchPaths {
		path := JoinPath(dir, name)
		if IsFile(path) {
			return path, true
		}
	}

	return name, false
}

// JoinPath is a windows-friendly version of filepath.Join.
func JoinPath(elem ...string) string {
	return filepath.ToSlash(filepath.Join(elem...))
}

// CleanPath cleans the path and uses / as the separator.
func CleanPath(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

// PathIsNotDirectory is returned when the given path is unexpectedly not a directory.
type PathIsNotDirectory struct {
	Path string
}

func (err PathIsNotDirectory) Error() string {
	return fmt.Sprintf("%s is not a directory", err.Path)
}

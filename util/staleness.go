package util

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/mattn/go-zglob"

	"github.com/cradle-build/cradle/internal/cache"
	"github.com/cradle-build/cradle/internal/errors"
)

// HeaderFileExtensions are the extensions scanned under include directories when deciding whether an object is stale.
var HeaderFileExtensions = []string{".hpp", ".hh", ".h", ".tpp"}

// IsTargetOlderThan returns true if the target does not exist or if it was modified strictly before any of the given
// files. Files that do not exist are skipped, which lets system libraries that are not on disk take part in the check.
func IsTargetOlderThan(target string, files ...string) (bool, error) {
	targetTime, exists, err := ModTime(target)
	if err != nil || !exists {
		return true, err
	}

	for _, file := range files {
		fileTime, exists, err := ModTime(file)
		if err != nil {
			return false, err
		}

		if exists && targetTime.Before(fileTime) {
			return true, nil
		}
	}

	return false, nil
}

// IsTargetOlderThanSourceAndHeaders returns true if the target does not exist, or if it is older than the source file
// or any header file found recursively under the given include directories.
func IsTargetOlderThanSourceAndHeaders(ctx context.Context, target, source string, includeDirs []string) (bool, error) {
	targetTime, exists, err := ModTime(target)
	if err != nil || !exists {
		return true, err
	}

	sourceTime, exists, err := ModTime(source)
	if err != nil {
		return false, err
	}

	// The compiler reports the missing source.
	if !exists || targetTime.Before(sourceTime) {
		return true, nil
	}

	for _, dir := range includeDirs {
		headerTime, err := newestHeaderModTime(ctx, dir)
		if err != nil {
			return false, err
		}

		if targetTime.Before(headerTime) {
			return true, nil
		}
	}

	return false, nil
}

// InvalidateHeaderScans drops the cached scans of the include directories containing any of paths. Actions that
// write headers during a run call it so that objects compiled after them are checked against the new files.
func InvalidateHeaderScans(ctx context.Context, paths ...string) {
	headerCache := cache.HeaderScanCacheFromContext(ctx)
	if headerCache == nil {
		return
	}

	headerCache.DeleteFunc(func(dir string) bool {
		return slices.ContainsFunc(paths, func(path string) bool {
			return isUnder(path, dir)
		})
	})
}

func isUnder(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}

	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// newestHeaderModTime returns the most recent modification time of the header files under dir. The result is memoized
// in the header scan cache for the duration of a run when one is present in ctx, until InvalidateHeaderScans drops it.
func newestHeaderModTime(ctx context.Context, dir string) (time.Time, error) {
	if headerCache := cache.HeaderScanCacheFromContext(ctx); headerCache != nil {
		return headerCache.GetOrCompute(ctx, dir, func() (time.Time, error) {
			return scanHeaders(dir)
		})
	}

	return scanHeaders(dir)
}

func scanHeaders(dir string) (time.Time, error) {
	var newest time.Time

	if !IsDir(dir) {
		return newest, nil
	}

	for _, ext := range HeaderFileExtensions {
		matches, err := zglob.Glob(filepath.Join(dir, "**", "*"+ext))
		if err != nil && !os.IsNotExist(err) {
			return newest, errors.New(err)
		}

		for _, match := range matches {
			modTime, exists, err := ModTime(match)
			if err != nil {
				return newest, err
			}

			if exists && modTime.After(newest) {
				newest = modTime
			}
		}
	}

	return newest, nil
}

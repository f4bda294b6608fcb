package cpp

import (
	"context"
	"slices"

	"github.com/cradle-build/cradle/pkg/log"
	"github.com/cradle-build/cradle/pkg/task"
	"github.com/cradle-build/cradle/shell"
	"github.com/cradle-build/cradle/util"
)

// ObjectTaskName returns the name of the task compiling source on behalf of root.
func ObjectTaskName(root, source string) string {
	return root + ":" + source + ":compile"
}

// Object returns a task compiling one translation unit. The object path is stored under OUTPUT_FILE, and the compiler
// only runs when the object is missing or older than the source or any header under includeDirs.
func Object(root, source string, includeDirs []string, opts ...Option) *task.Task {
	cfg := newConfig(opts)
	includeDirs = slices.Clone(includeDirs)

	return task.New(ObjectTaskName(root, source), func(ctx context.Context, self *task.Task) error {
		toolchain, outputDir := cfg.resolve(ctx)
		output := objectOutputPath(outputDir, toolchain.ObjectFileName(source))

		self.Set(OutputFileKey, output)

		stale, err := util.IsTargetOlderThanSourceAndHeaders(ctx, output, source, includeDirs)
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

		return shell.Exec(ctx, toolchain.CompileObjectCmd(output, source, includeDirs))
	})
}

// outputFiles reads OUTPUT_FILE from every task, in order.
func outputFiles(tasks []*task.Task) ([]string, error) {
	paths := make([]string, 0, len(tasks))

	for _, t := range tasks {
		path, err := t.Get(OutputFileKey)
		if err != nil {
			return nil, err
		}

		paths = append(paths, path)
	}

	return paths, nil
}

package executor

import (
	"fmt"
	"io"
	"strings"

	"github.com/cradle-build/cradle/internal/errors"
	"github.com/cradle-build/cradle/pkg/task"
)

// WriteDot emits a GraphViz definition of the tasks reachable from the given names. Dependency edges
// are solid and follower edges dashed. Followers attached by graph expansion exist only once the
// expanding task ran, so they are missing from a graph written before Run.
func (executor *Executor) WriteDot(w io.Writer, names ...string) error {
	roots, err := executor.resolve(names)
	if err != nil {
		return err
	}

	return WriteDot(w, roots...)
}

// WriteDot emits a GraphViz definition of the tasks reachable from roots.
func WriteDot(w io.Writer, roots ...*task.Task) error {
	var (
		sb      strings.Builder
		visited = make(map[*task.Task]bool)
		queue   = append([]*task.Task(nil), roots...)
	)

	sb.WriteString("digraph {\n")

	for len(queue) > 0 {
		source := queue[0]
		queue = queue[1:]

		if visited[source] {
			continue
		}

		visited[source] = true

		style := ""
		if source.IsAnonymous() {
			style = " [label=\"<anonymous>\" shape=point]"
		}

		fmt.Fprintf(&sb, "\t%q%s;\n", source.ID(), style)

		for _, dep := range source.Dependencies() {
			fmt.Fprintf(&sb, "\t%q -> %q;\n", source.ID(), dep.ID())
			queue = append(queue, dep)
		}

		for _, follower := range source.Followers() {
			fmt.Fprintf(&sb, "\t%q -> %q [style=dashed];\n", source.ID(), follower.ID())
			queue = append(queue, follower)
		}
	}

	sb.WriteString("}\n")

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return errors.New(err)
	}

	return nil
}

package executor

import (
	"github.com/cradle-build/cradle/internal/errors"
	"github.com/cradle-build/cradle/pkg/task"
)

// checkForCycles walks the dependency and follower edges reachable from t and returns a
// DependencyCycleError if any path revisits a task. Tasks whose closure was found acyclic are remembered
// together with the graph generation of the check, so they are walked again only after a new edge was
// attached somewhere.
func (executor *Executor) checkForCycles(t *task.Task) error {
	generation := task.Generation()

	if checked, ok := executor.acyclic.Load(t); ok && checked == generation {
		return nil
	}

	var (
		visited        = make(map[*task.Task]bool)
		traversal      []*task.Task
		traversalIndex = make(map[*task.Task]int)
	)

	if err := checkForCyclesUsingDepthFirstSearch(t, visited, &traversal, traversalIndex); err != nil {
		return err
	}

	for visitedTask := range visited {
		executor.acyclic.Store(visitedTask, generation)
	}

	return nil
}

// checkForCyclesUsingDepthFirstSearch visits t and its edges. traversal holds the current path and
// traversalIndex the position of every task on it, so the reported cycle starts at the revisited task.
func checkForCyclesUsingDepthFirstSearch(t *task.Task, visited map[*task.Task]bool, traversal *[]*task.Task, traversalIndex map[*task.Task]int) error {
	if visited[t] {
		return nil
	}

	if index, ok := traversalIndex[t]; ok {
		cycle := make(DependencyCycleError, 0, len(*traversal)-index+1)
		for _, cur := range (*traversal)[index:] {
			cycle = append(cycle, cur.ID())
		}

		return errors.New(append(cycle, t.ID()))
	}

	traversalIndex[t] = len(*traversal)
	*traversal = append(*traversal, t)

	edges := append(t.Dependencies(), t.Followers()...)
	for _, next := range edges {
		if err := checkForCyclesUsingDepthFirstSearch(next, visited, traversal, traversalIndex); err != nil {
			return err
		}
	}

	*traversal = (*traversal)[:len(*traversal)-1]
	delete(traversalIndex, t)
	visited[t] = true

	return nil
}

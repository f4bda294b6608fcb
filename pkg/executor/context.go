package executor

import (
	"context"
	"sync"

	"github.com/cradle-build/cradle/pkg/task"
)

type ctxKey byte

const (
	frameContextKey ctxKey = iota
	slotContextKey
	executorContextKey
)

// frame is one level of the execution path: the tasks currently being executed by a goroutine, from the
// top-level request down to the innermost dependency, follower or nested execution.
type frame struct {
	task   *task.Task
	parent *frame
}

func frameFromContext(ctx context.Context) *frame {
	if f, ok := ctx.Value(frameContextKey).(*frame); ok {
		return f
	}

	return nil
}

func contextWithFrame(ctx context.Context, t *task.Task) context.Context {
	return context.WithValue(ctx, frameContextKey, &frame{task: t, parent: frameFromContext(ctx)})
}

// cycle returns the path from the outermost occurrence of t to the current frame, closed by t,
// or nil if t is not being executed on this path.
func (f *frame) cycle(t *task.Task) []string {
	var path []string

	for cur := f; cur != nil; cur = cur.parent {
		path = append(path, cur.task.ID())

		if cur.task == t {
			ids := make([]string, 0, len(path)+1)
			for i := len(path) - 1; i >= 0; i-- {
				ids = append(ids, path[i])
			}

			return append(ids, t.ID())
		}
	}

	return nil
}

// slot is an action slot of the parallelism semaphore held by a running action. Nested executions
// started by the action give the slot back while they wait.
type slot struct {
	semaphore chan struct{}
	mu        sync.Mutex
	yielded   int
}

func slotFromContext(ctx context.Context) *slot {
	if s, ok := ctx.Value(slotContextKey).(*slot); ok {
		return s
	}

	return nil
}

// yield gives the slot back when the first nested execution starts.
func (s *slot) yield() {
	s.mu.Lock()
	s.yielded++
	release := s.yielded == 1
	s.mu.Unlock()

	if release {
		<-s.semaphore
	}
}

// reclaim takes a slot again when the last nested execution ends. The send happens outside the lock, so
// a concurrent yield is not blocked while the slot is being reclaimed.
func (s *slot) reclaim() {
	s.mu.Lock()
	s.yielded--
	acquire := s.yielded == 0
	s.mu.Unlock()

	if acquire {
		s.semaphore <- struct{}{}
	}
}

// ContextWithExecutor returns a context carrying executor. Actions receive such a context, so they can
// execute the sub-graphs they build.
func ContextWithExecutor(ctx context.Context, executor *Executor) context.Context {
	ctx = context.WithValue(ctx, executorContextKey, executor)
	return task.ContextWithRegistrar(ctx, executor)
}

// FromContext returns the executor stored in ctx, or nil.
func FromContext(ctx context.Context) *Executor {
	if executor, ok := ctx.Value(executorContextKey).(*Executor); ok {
		return executor
	}

	return nil
}

package executor

import (
	"context"

	"github.com/cradle-build/cradle/internal/errors"
	"github.com/cradle-build/cradle/internal/worker"
	"github.com/cradle-build/cradle/pkg/task"
)

// Run drains the request queue in FIFO order and executes every requested task. An unregistered name
// aborts the run with an UnknownTaskError. The first failing request stops the run unless the executor
// keeps going, in which case every request is executed and all failures are returned together. A missing
// store key is a wiring mistake rather than a build failure, so it stops the run even when keeping going.
func (executor *Executor) Run(ctx context.Context) error {
	ctx = ContextWithExecutor(ctx, executor)

	errs := &errors.MultiError{}

	for {
		names := executor.popQueue()
		if len(names) == 0 {
			break
		}

		if !executor.keepGoing {
			if err := executor.runSequentially(ctx, names); err != nil {
				return err
			}

			continue
		}

		tasks, err := executor.resolve(names)
		if err != nil {
			return errs.Append(err).ErrorOrNil()
		}

		if err := executor.runAll(ctx, tasks); err != nil {
			errs = errs.Append(err)

			if errors.Is(err, task.ErrMissingKey) {
				break
			}
		}
	}

	return errs.ErrorOrNil()
}

func (executor *Executor) runSequentially(ctx context.Context, names []string) error {
	for _, name := range names {
		t, ok := executor.Lookup(name)
		if !ok {
			return errors.New(UnknownTaskError{Name: name})
		}

		if err := executor.execute(ctx, t); err != nil {
			return err
		}
	}

	return nil
}

func (executor *Executor) resolve(names []string) ([]*task.Task, error) {
	tasks := make([]*task.Task, 0, len(names))

	for _, name := range names {
		t, ok := executor.Lookup(name)
		if !ok {
			return nil, errors.New(UnknownTaskError{Name: name})
		}

		tasks = append(tasks, t)
	}

	return tasks, nil
}

// runAll executes every task even if some fail, until one of them misses a store key. With parallelism
// above 1 the requests run on a worker pool, otherwise one after another in request order.
func (executor *Executor) runAll(ctx context.Context, tasks []*task.Task) error {
	if executor.parallelism <= 1 {
		errs := &errors.MultiError{}

		for _, t := range tasks {
			if err := executor.execute(ctx, t); err != nil {
				errs = errs.Append(err)

				if errors.Is(err, task.ErrMissingKey) {
					break
				}
			}
		}

		return errs.ErrorOrNil()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool := worker.NewWorkerPool(executor.parallelism)

	for _, t := range tasks {
		pool.Submit(ctx, func(ctx context.Context) error {
			err := executor.execute(ctx, t)
			if errors.Is(err, task.ErrMissingKey) {
				cancel()
			}

			return err
		})
	}

	err := pool.GracefulStop()
	if errors.Is(err, task.ErrMissingKey) {
		return withoutCancellations(err)
	}

	return err
}

// withoutCancellations drops the requests interrupted by a stopped run, keeping the failures that caused it.
func withoutCancellations(err error) error {
	errs := &errors.MultiError{}

	for _, leaf := range errors.UnwrapMultiErrors(err) {
		if !errors.IsContextCanceled(leaf) {
			errs = errs.Append(leaf)
		}
	}

	return errs.ErrorOrNil()
}

package executor

import (
	"context"
	"slices"
	"time"

	"github.com/cradle-build/cradle/internal/errors"
	"github.com/cradle-build/cradle/internal/report"
	"github.com/cradle-build/cradle/pkg/log"
	"github.com/cradle-build/cradle/pkg/task"
	"golang.org/x/sync/errgroup"
)

const actionTelemetryName = "task_action"

// Execute runs t with the memoized algorithm of the executor: dependencies first, then the action, then
// the followers. It may be called from inside an action to run a sub-graph the action built; the
// action's parallelism slot is given back while the nested execution waits.
func (executor *Executor) Execute(ctx context.Context, t *task.Task) error {
	if s := slotFromContext(ctx); s != nil {
		s.yield()
		defer s.reclaim()
	}

	if FromContext(ctx) != executor {
		ctx = ContextWithExecutor(ctx, executor)
	}

	return executor.execute(ctx, t)
}

func (executor *Executor) execute(ctx context.Context, t *task.Task) error {
	if err := executor.checkForCycles(t); err != nil {
		return err
	}

	if cycle := frameFromContext(ctx).cycle(t); cycle != nil {
		return errors.New(DependencyCycleError(cycle))
	}

	for {
		res, loaded := executor.memo.LoadOrCompute(t, newResult)
		if !loaded {
			actionRan, err := executor.run(contextWithFrame(ctx, t), t)
			if actionRan || !interrupted(ctx, err) {
				return res.resolve(err)
			}

			executor.memo.Compute(t, func(cur *result, loaded bool) (*result, bool) {
				return cur, !loaded || cur == res
			})

			return res.abort(err)
		}

		err := res.wait(ctx)
		if res.isDone() && res.aborted && ctx.Err() == nil {
			continue
		}

		return err
	}
}

// interrupted returns true if err comes from the cancellation of ctx rather than from the task itself.
func interrupted(ctx context.Context, err error) bool {
	return err != nil && ctx.Err() != nil && errors.IsContextCanceled(err)
}

// run executes the dependencies, the action and the followers of t. actionRan reports whether the action
// of t was started, in which case its result must be memoized even if the run was interrupted.
func (executor *Executor) run(ctx context.Context, t *task.Task) (actionRan bool, err error) {
	if err := executor.executeDependencies(ctx, t); err != nil {
		now := time.Now()
		executor.report.AddRun(&report.Run{Name: t.ID(), Started: now, Ended: now, Result: report.ResultSkipped, Reason: err.Error()})

		return false, err
	}

	if err := ctx.Err(); err != nil {
		return false, errors.New(err)
	}

	if err := executor.runAction(ctx, t); err != nil {
		var actionErr ActionFailedError
		return errors.As(err, &actionErr), err
	}

	followers := t.Followers()
	if len(followers) > 0 {
		executor.logger.Debugf("Task %s is followed by %d tasks", t.ID(), len(followers))
	}

	for _, follower := range followers {
		if err := ctx.Err(); err != nil {
			return true, errors.New(err)
		}

		if err := executor.execute(ctx, follower); err != nil {
			return true, errors.New(FollowerFailedError{Task: t.ID(), Follower: follower.ID(), Err: err})
		}
	}

	return true, nil
}

func (executor *Executor) executeDependencies(ctx context.Context, t *task.Task) error {
	deps := t.Dependencies()
	if len(deps) == 0 {
		return nil
	}

	executor.logger.Debugf("Task %s must wait for %d dependencies to finish", t.ID(), len(deps))

	if executor.semaphore == nil || len(deps) == 1 {
		for _, dep := range deps {
			if err := executor.execute(ctx, dep); err != nil {
				return errors.New(DependencyFailedError{Task: t.ID(), Dependency: dep.ID(), Err: err})
			}
		}

		return nil
	}

	// The first failing dependency cancels groupCtx, so its siblings launch no further work.
	group, groupCtx := errgroup.WithContext(ctx)
	errs := make([]error, len(deps))

	for i, dep := range deps {
		group.Go(func() error {
			errs[i] = executor.execute(groupCtx, dep)
			return errs[i]
		})
	}

	if group.Wait() == nil {
		return nil
	}

	// Report the dependency that failed on its own rather than a sibling that was interrupted.
	failed := slices.IndexFunc(errs, func(err error) bool { return err != nil && !errors.IsContextCanceled(err) })
	if failed < 0 {
		failed = slices.IndexFunc(errs, func(err error) bool { return err != nil })
	}

	return errors.New(DependencyFailedError{Task: t.ID(), Dependency: deps[failed].ID(), Err: errs[failed]})
}

func (executor *Executor) runAction(ctx context.Context, t *task.Task) error {
	logger := executor.logger
	if !t.IsAnonymous() {
		logger = logger.WithField(log.FieldKeyPrefix, t.Name())
		executor.logger.Infof("Executing: %s", t.Name())
	}

	if executor.semaphore != nil {
		select {
		case executor.semaphore <- struct{}{}:
		case <-ctx.Done():
			return errors.New(ctx.Err())
		}

		defer func() { <-executor.semaphore }()

		ctx = context.WithValue(ctx, slotContextKey, &slot{semaphore: executor.semaphore})
	}

	ctx = log.ContextWithLogger(ctx, logger)
	startTime := time.Now()

	err := executor.telemeter.Collect(ctx, actionTelemetryName, map[string]any{"task": t.ID()}, func(ctx context.Context) error {
		return t.Execute(ctx)
	})

	run := &report.Run{Name: t.ID(), Started: startTime, Ended: time.Now(), Result: report.ResultSucceeded}
	if err != nil {
		run.Result = report.ResultFailed
		run.Reason = err.Error()
	}

	executor.report.AddRun(run)

	if err != nil {
		logger.Debugf("Action of task %s failed: %v", t.ID(), err)
		return errors.New(ActionFailedError{Task: t.ID(), Err: err})
	}

	return nil
}

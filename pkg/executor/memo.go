package executor

import (
	"context"

	"github.com/cradle-build/cradle/internal/errors"
)

// Status is the outcome of a task in one run.
type Status byte

const (
	// StatusPending means the task was not visited yet or is still running.
	StatusPending Status = iota
	StatusSucceeded
	StatusFailed
)

var statusNames = map[Status]string{
	StatusPending:   "pending",
	StatusSucceeded: "succeeded",
	StatusFailed:    "failed",
}

func (status Status) String() string {
	return statusNames[status]
}

// result is a memo entry. The goroutine that stored it runs the task and closes done; everyone else
// waits on done.
type result struct {
	done    chan struct{}
	err     error
	status  Status
	aborted bool
}

func newResult() *result {
	return &result{done: make(chan struct{})}
}

func (res *result) resolve(err error) error {
	res.err = err

	if err != nil {
		res.status = StatusFailed
	} else {
		res.status = StatusSucceeded
	}

	close(res.done)

	return err
}

// abort releases the waiters of a run that was interrupted because a sibling branch failed. An aborted
// result is removed from the memo, so waiters from other requests execute the task again.
func (res *result) abort(err error) error {
	res.err = err
	res.aborted = true

	close(res.done)

	return err
}

func (res *result) isDone() bool {
	select {
	case <-res.done:
		return true
	default:
		return false
	}
}

func (res *result) wait(ctx context.Context) error {
	select {
	case <-res.done:
		return res.err
	case <-ctx.Done():
		return errors.New(ctx.Err())
	}
}

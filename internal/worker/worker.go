// Package worker provides a bounded pool of goroutines that run submitted jobs and collect their errors.
package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/cradle-build/cradle/internal/errors"
)

// Job is a unit of work run by the pool.
type Job func(ctx context.Context) error

// Pool runs submitted jobs concurrently, at most maxWorkers at a time.
type Pool struct {
	semaphore  chan struct{}
	allErrors  *errors.MultiError
	wg         sync.WaitGroup
	errorsMu   sync.Mutex
	maxWorkers int
	isStopping atomic.Bool
}

// NewWorkerPool creates a new worker pool with the specified maximum number of concurrent workers.
func NewWorkerPool(maxWorkers int) *Pool {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}

	return &Pool{
		maxWorkers: maxWorkers,
		semaphore:  make(chan struct{}, maxWorkers),
		allErrors:  &errors.MultiError{},
	}
}

// MaxWorkers returns the concurrency limit of the pool.
func (wp *Pool) MaxWorkers() int {
	return wp.maxWorkers
}

func (wp *Pool) appendError(err error) {
	if err == nil {
		return
	}

	wp.errorsMu.Lock()
	wp.allErrors = wp.allErrors.Append(err)
	wp.errorsMu.Unlock()
}

// Submit starts a goroutine that runs job once a worker is available. Jobs submitted after Stop are
// dropped. A job still waiting for a worker when ctx is done is not run and ctx's error is collected.
func (wp *Pool) Submit(ctx context.Context, job Job) {
	if wp.isStopping.Load() {
		return
	}

	wp.wg.Add(1)

	go func() {
		defer wp.wg.Done()

		if err := ctx.Err(); err != nil {
			wp.appendError(errors.New(err))
			return
		}

		select {
		case wp.semaphore <- struct{}{}:
		case <-ctx.Done():
			wp.appendError(errors.New(ctx.Err()))
			return
		}

		defer func() { <-wp.semaphore }()

		wp.appendError(job(ctx))
	}()
}

// Wait blocks until all submitted jobs are completed and returns the collected errors.
func (wp *Pool) Wait() error {
	wp.wg.Wait()

	wp.errorsMu.Lock()
	defer wp.errorsMu.Unlock()

	return wp.allErrors.ErrorOrNil()
}

// Stop prevents new submissions. Jobs already submitted keep running.
func (wp *Pool) Stop() {
	wp.isStopping.Store(true)
}

// GracefulStop stops the pool and waits for the submitted jobs to complete.
func (wp *Pool) GracefulStop() error {
	wp.Stop()
	return wp.Wait()
}

// IsStopping returns whether the pool no longer accepts jobs.
func (wp *Pool) IsStopping() bool {
	return wp.isStopping.Load()
}

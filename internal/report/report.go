// Package report records what happened to every task action of a run, and renders the records as a run summary
// or as a JSON or CSV file.
package report

import (
	"slices"
	"sync"
	"time"
)

// Result is the outcome of a task action.
type Result string

const (
	ResultSucceeded Result = "succeeded"
	ResultFailed    Result = "failed"
	// ResultSkipped marks a task whose action never ran because one of its dependencies failed.
	ResultSkipped Result = "skipped"
)

// Run records one task action. Reason holds the error message of a failed or skipped task.
type Run struct {
	Started time.Time
	Ended   time.Time
	Name    string
	Result  Result
	Reason  string
}

func (run *Run) Duration() time.Duration {
	return run.Ended.Sub(run.Started)
}

// Report is safe for concurrent use by the workers of an executor.
type Report struct {
	mu   sync.RWMutex
	runs []*Run
}

func NewReport() *Report {
	return &Report{}
}

// AddRun records a finished action.
func (r *Report) AddRun(run *Run) {
	r.mu.Lock()
	r.runs = append(r.runs, run)
	r.mu.Unlock()
}

// Runs returns a copy of the records, in the order they were added.
func (r *Report) Runs() []*Run {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.runs)
}

// GetRun returns the most recent record named name, or nil.
func (r *Report) GetRun(name string) *Run {
	for _, run := range slices.Backward(r.Runs()) {
		if run.Name == name {
			return run
		}
	}

	return nil
}

// Package executor runs cradle task graphs: it keeps the registry of named tasks and the queue of
// requested names, and executes every request with dependency ordering, memoization and cycle detection.
package executor

import (
	"sync"

	"github.com/cradle-build/cradle/internal/errors"
	"github.com/cradle-build/cradle/internal/report"
	"github.com/cradle-build/cradle/internal/telemetry"
	"github.com/cradle-build/cradle/pkg/log"
	"github.com/cradle-build/cradle/pkg/task"
	"github.com/puzpuzpuz/xsync/v3"
)

var _ task.Registrar = new(Executor)

// Executor holds one build graph and runs it. An executor is meant for a single run.
type Executor struct {
	logger    log.Logger
	telemeter *telemetry.Telemeter
	report    *report.Report

	registry *xsync.MapOf[string, *task.Task]
	memo     *xsync.MapOf[*task.Task, *result]
	acyclic  *xsync.MapOf[*task.Task, uint64]

	// semaphore bounds the number of concurrently running actions, nil when parallelism is 1.
	semaphore chan struct{}

	queue []string
	names []string

	parallelism int
	mu          sync.Mutex
	keepGoing   bool
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger used to report progress.
func WithLogger(logger log.Logger) Option {
	return func(executor *Executor) {
		executor.logger = logger
	}
}

// WithParallelism sets how many actions may run at the same time. With 1, the default, tasks run one at
// a time in depth-first declaration order.
func WithParallelism(parallelism int) Option {
	return func(executor *Executor) {
		executor.parallelism = max(parallelism, 1)
	}
}

// WithKeepGoing makes Run execute every request even after one of them failed.
func WithKeepGoing(keepGoing bool) Option {
	return func(executor *Executor) {
		executor.keepGoing = keepGoing
	}
}

// WithTelemeter sets the telemeter wrapped around every action.
func WithTelemeter(telemeter *telemetry.Telemeter) Option {
	return func(executor *Executor) {
		executor.telemeter = telemeter
	}
}

// New returns an executor with an empty registry.
func New(opts ...Option) *Executor {
	executor := &Executor{
		logger:      log.Default(),
		report:      report.NewReport(),
		registry:    xsync.NewMapOf[string, *task.Task](),
		memo:        xsync.NewMapOf[*task.Task, *result](),
		acyclic:     xsync.NewMapOf[*task.Task, uint64](),
		parallelism: 1,
	}

	for _, opt := range opts {
		opt(executor)
	}

	if executor.parallelism > 1 {
		executor.semaphore = make(chan struct{}, executor.parallelism)
	}

	return executor
}

// Register adds named tasks to the registry. Anonymous tasks are ignored. Registering a name twice
// returns a DuplicateTaskNameError.
func (executor *Executor) Register(tasks ...*task.Task) error {
	for _, t := range tasks {
		if t == nil || t.IsAnonymous() {
			continue
		}

		if existing, loaded := executor.registry.LoadOrStore(t.Name(), t); loaded {
			if existing == t {
				continue
			}

			return errors.New(DuplicateTaskNameError{Name: t.Name()})
		}

		executor.mu.Lock()
		executor.names = append(executor.names, t.Name())
		executor.mu.Unlock()
	}

	return nil
}

// MustRegister is like Register but panics on a duplicate name. It is meant for graph construction code
// where a duplicate is a programming error.
func (executor *Executor) MustRegister(tasks ...*task.Task) {
	if err := executor.Register(tasks...); err != nil {
		panic(err)
	}
}

// Lookup returns the task registered under name.
func (executor *Executor) Lookup(name string) (*task.Task, bool) {
	return executor.registry.Load(name)
}

// Names returns the registered task names in registration order.
func (executor *Executor) Names() []string {
	executor.mu.Lock()
	defer executor.mu.Unlock()

	return append([]string(nil), executor.names...)
}

// Request appends names to the queue of tasks to run. Names are resolved when the queue is drained, so
// they may refer to tasks registered later.
func (executor *Executor) Request(names ...string) {
	executor.mu.Lock()
	defer executor.mu.Unlock()

	executor.queue = append(executor.queue, names...)
}

// Status returns the memoized outcome of t, StatusPending if it has not completed in this run.
func (executor *Executor) Status(t *task.Task) Status {
	res, ok := executor.memo.Load(t)
	if !ok || !res.isDone() {
		return StatusPending
	}

	return res.status
}

// Report returns the record of the actions run so far.
func (executor *Executor) Report() *report.Report {
	return executor.report
}

func (executor *Executor) popQueue() []string {
	executor.mu.Lock()
	defer executor.mu.Unlock()

	names := executor.queue
	executor.queue = nil

	return names
}

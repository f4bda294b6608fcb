// Package task provides the unit of work of a cradle build graph: a named or anonymous Task with an action,
// dependency and follower edges, and a data store used to pass results between tasks.
package task

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cradle-build/cradle/internal/errors"
)

// Action is the body of a task. It is given the task it belongs to so it can read and write its store
// and attach followers (graph expansion). A nil error means success.
type Action func(ctx context.Context, self *Task) error

// generation is bumped every time an edge is attached to any task.
var generation atomic.Uint64

// Generation returns the current graph generation. Any result derived from walking task edges is valid
// only as long as the generation does not change.
func Generation() uint64 {
	return generation.Load()
}

// Task is a node of the build graph. Tasks are shared by reference; the same task may be a dependency or
// a follower of many others.
type Task struct {
	name   string
	action Action
	store  *Store

	mu           sync.RWMutex
	dependencies []*Task
	followers    []*Task
}

// New returns a task with the given name and action. An empty name makes the task anonymous: it can only be
// reached through edges, never requested by name.
func New(name string, action Action) *Task {
	return &Task{
		name:   name,
		action: action,
		store:  NewStore(),
	}
}

// Anonymous returns an unnamed task running the given action.
func Anonymous(action Action) *Task {
	return New("", action)
}

// Name returns the task name, empty for anonymous tasks.
func (task *Task) Name() string {
	return task.name
}

// IsAnonymous returns true if the task has no name.
func (task *Task) IsAnonymous() bool {
	return task.name == ""
}

// ID returns a printable identity: the name, or `<anonymous@0x...>` for anonymous tasks.
func (task *Task) ID() string {
	if task.IsAnonymous() {
		return fmt.Sprintf("<anonymous@%p>", task)
	}

	return task.name
}

func (task *Task) String() string {
	return task.ID()
}

// DependsOn appends dependency edges. Dependencies must all succeed before the task's action runs.
// Cycles are not checked here.
func (task *Task) DependsOn(others ...*Task) *Task {
	task.mu.Lock()
	defer task.mu.Unlock()

	for _, other := range others {
		if other == nil {
			continue
		}

		task.dependencies = append(task.dependencies, other)
		generation.Add(1)
	}

	return task
}

// FollowedBy appends follower edges. Followers run in order after the task's action succeeds.
func (task *Task) FollowedBy(others ...*Task) *Task {
	task.mu.Lock()
	defer task.mu.Unlock()

	for _, other := range others {
		if other == nil {
			continue
		}

		task.followers = append(task.followers, other)
		generation.Add(1)
	}

	return task
}

// Dependencies returns a copy of the dependency edges in declaration order.
func (task *Task) Dependencies() []*Task {
	task.mu.RLock()
	defer task.mu.RUnlock()

	return append([]*Task(nil), task.dependencies...)
}

// Followers returns a copy of the follower edges in declaration order.
func (task *Task) Followers() []*Task {
	task.mu.RLock()
	defer task.mu.RUnlock()

	return append([]*Task(nil), task.followers...)
}

// Store returns the task's data store.
func (task *Task) Store() *Store {
	return task.store
}

// Set sets a scalar key on the task's store.
func (task *Task) Set(key, value string) {
	task.store.Set(key, value)
}

// Get reads a scalar key, returning a MissingKeyError if it was never set.
func (task *Task) Get(key string) (string, error) {
	val, ok := task.store.Lookup(key)
	if !ok {
		return "", errors.New(MissingKeyError{Task: task.ID(), Key: key})
	}

	return val, nil
}

// Push appends values to a list key, creating the list if needed.
func (task *Task) Push(key string, values ...string) {
	task.store.Push(key, values...)
}

// GetList reads a list key, returning a MissingKeyError if the list does not exist.
func (task *Task) GetList(key string) ([]string, error) {
	vals, ok := task.store.LookupList(key)
	if !ok {
		return nil, errors.New(MissingKeyError{Task: task.ID(), Key: key, List: true})
	}

	return vals, nil
}

// EnsureList creates an empty list under key if none exists.
func (task *Task) EnsureList(key string) {
	task.store.EnsureList(key)
}

// Execute invokes the task's action once, without visiting dependencies or followers and without any
// memoization. A panic inside the action is returned as an error.
func (task *Task) Execute(ctx context.Context) (err error) {
	if task.action == nil {
		return nil
	}

	defer errors.Recover(func(cause error) {
		err = errors.Errorf("task %s panicked: %w", task.ID(), cause)
	})

	return task.action(ctx, task)
}

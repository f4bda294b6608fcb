package executor

import (
	"fmt"
	"strings"
)

// DuplicateTaskNameError is returned when a second task is registered under an existing name.
type DuplicateTaskNameError struct {
	Name string
}

func (err DuplicateTaskNameError) Error() string {
	return "duplicate tasks with name: " + err.Name
}

// UnknownTaskError is returned when a requested name was never registered.
type UnknownTaskError struct {
	Name string
}

func (err UnknownTaskError) Error() string {
	return "unknown task: " + err.Name
}

// DependencyCycleError lists the tasks forming a cycle. The first and last elements are the same task.
type DependencyCycleError []string

func (err DependencyCycleError) Error() string {
	return "found a dependency cycle between tasks: " + strings.Join(err, " -> ")
}

// ActionFailedError is returned when the action of a task fails.
type ActionFailedError struct {
	Err  error
	Task string
}

func (err ActionFailedError) Error() string {
	return fmt.Sprintf("task %s failed: %v", err.Task, err.Err)
}

func (err ActionFailedError) Unwrap() error {
	return err.Err
}

// DependencyFailedError is returned for a task whose action was not run because a dependency failed.
type DependencyFailedError struct {
	Err        error
	Task       string
	Dependency string
}

func (err DependencyFailedError) Error() string {
	return fmt.Sprintf("task %s: dependency %s failed: %v", err.Task, err.Dependency, err.Err)
}

func (err DependencyFailedError) Unwrap() error {
	return err.Err
}

// FollowerFailedError is returned for a task whose action succeeded but one of its followers failed.
type FollowerFailedError struct {
	Err      error
	Task     string
	Follower string
}

func (err FollowerFailedError) Error() string {
	return fmt.Sprintf("task %s: follower %s failed: %v", err.Task, err.Follower, err.Err)
}

func (err FollowerFailedError) Unwrap() error {
	return err.Err
}

package task

import (
	"context"
)

// Step is a chain step. It receives the task of the previous step, already completed, and its own task.
type Step func(ctx context.Context, prev, self *Task) error

// Chain assembles a linear sequence of tasks where every step depends on the previous one and inherits
// its keys without overwriting its own. The built task carries the union of all steps' keys.
type Chain struct {
	name  string
	first *Task
	steps []Step
}

// NewChain returns an empty chain builder.
func NewChain() *Chain {
	return &Chain{}
}

// Name sets the name of the built task.
func (chain *Chain) Name(name string) *Chain {
	chain.name = name
	return chain
}

// First sets the task the chain starts with.
func (chain *Chain) First(first *Task) *Chain {
	chain.first = first
	return chain
}

// FirstAction starts the chain with an anonymous task running action.
func (chain *Chain) FirstAction(action Action) *Chain {
	return chain.First(Anonymous(action))
}

// Then appends a step that only needs its own task.
func (chain *Chain) Then(action Action) *Chain {
	return chain.ThenWithPrev(func(ctx context.Context, _, self *Task) error {
		return action(ctx, self)
	})
}

// ThenWithPrev appends a step that is given the previous step's task.
func (chain *Chain) ThenWithPrev(step Step) *Chain {
	chain.steps = append(chain.steps, step)
	return chain
}

// ThenTask appends a step that executes other directly, outside of any scheduler memoization, and on
// success copies its keys into the step.
func (chain *Chain) ThenTask(other *Task) *Chain {
	return chain.ThenWithPrev(func(ctx context.Context, _, self *Task) error {
		if err := other.Execute(ctx); err != nil {
			return err
		}

		CopyNonConflicting(self, other)

		return nil
	})
}

// Build creates the tasks of the chain and returns the final one. If registrar is not nil and the chain
// is named, the final task is registered.
func (chain *Chain) Build(registrar Registrar) (*Task, error) {
	if chain.first == nil {
		return nil, MissingBuilderFieldError{Builder: "chain", Field: "first"}
	}

	current := chain.first

	for _, step := range chain.steps {
		prev := current
		current = Anonymous(func(ctx context.Context, self *Task) error {
			err := step(ctx, prev, self)
			CopyNonConflicting(self, prev)

			return err
		}).DependsOn(prev)
	}

	last := current

	final := New(chain.name, func(_ context.Context, self *Task) error {
		CopyNonConflicting(self, last)
		return nil
	}).DependsOn(last)

	if registrar != nil && !final.IsAnonymous() {
		if err := registrar.Register(final); err != nil {
			return nil, err
		}
	}

	return final, nil
}

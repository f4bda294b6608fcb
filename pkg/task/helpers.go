package task

import "context"

// Func adapts an action that does not need its task or context.
func Func(fn func() error) Action {
	return func(context.Context, *Task) error {
		return fn()
	}
}

// ListOf returns an anonymous task that pushes items to the list under key.
func ListOf(key string, items ...string) *Task {
	items = append([]string{}, items...)

	return Anonymous(func(_ context.Context, self *Task) error {
		self.Push(key, items...)
		return nil
	})
}

// EmptyList returns an anonymous task that ensures an empty list exists under key.
func EmptyList(key string) *Task {
	return Anonymous(func(_ context.Context, self *Task) error {
		self.EnsureList(key)
		return nil
	})
}

// Value returns an anonymous task that sets the scalar key to value.
func Value(key, value string) *Task {
	return Anonymous(func(_ context.Context, self *Task) error {
		self.Set(key, value)
		return nil
	})
}

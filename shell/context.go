package shell

import (
	"context"
)

const (
	RunOptionsContextKey ctxKey = iota
	CommandHookContextKey
)

type ctxKey byte

// RunCommandFunc is a context value for `CommandHookContextKey` key, used to intercept commands run by build tasks.
type RunCommandFunc func(ctx context.Context, opts *RunOptions, cmdline string) error

// ContextWithCommandHook returns a new context whose commands are passed to fn instead of being executed.
func ContextWithCommandHook(ctx context.Context, fn RunCommandFunc) context.Context {
	return context.WithValue(ctx, CommandHookContextKey, fn)
}

// CommandHookFromContext returns `RunCommandFunc` from the context if it has been set, otherwise returns nil.
func CommandHookFromContext(ctx context.Context) RunCommandFunc {
	if val, ok := ctx.Value(CommandHookContextKey).(RunCommandFunc); ok {
		return val
	}

	return nil
}

// ContextWithRunOptions returns a new context carrying the default options of commands run by build tasks.
func ContextWithRunOptions(ctx context.Context, opts *RunOptions) context.Context {
	return context.WithValue(ctx, RunOptionsContextKey, opts)
}

// RunOptionsFromContext returns a copy of the options stored in the context, or empty options.
func RunOptionsFromContext(ctx context.Context) *RunOptions {
	if val, ok := ctx.Value(RunOptionsContextKey).(*RunOptions); ok && val != nil {
		opts := *val
		return &opts
	}

	return &RunOptions{}
}

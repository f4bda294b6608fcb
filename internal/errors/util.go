package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// As is errors.As from the standard library.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Is is errors.Is from the standard library.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

type stackTracer interface {
	ErrorStack() string
}

// walk calls fn for every error in the chain of each error wrapped by err, stopping when fn returns false.
func walk(err error, fn func(err error) bool) {
	for _, err := range UnwrapMultiErrors(err) {
		for ; err != nil; err = errors.Unwrap(err) {
			if !fn(err) {
				return
			}
		}
	}
}

// ErrorStack returns the stack traces carried by err, one per wrapped error.
func ErrorStack(err error) string {
	var stacks []string

	walk(err, func(err error) bool {
		if tracer, ok := err.(stackTracer); ok {
			stacks = append(stacks, tracer.ErrorStack())
		}

		return true
	})

	return strings.Join(stacks, "\n")
}

// ContainsStackTrace returns true if err or any error it wraps carries a stack trace.
func ContainsStackTrace(err error) bool {
	found := false

	walk(err, func(err error) bool {
		_, found = err.(stackTracer)
		return !found
	})

	return found
}

// IsContextCanceled returns true if err was caused by a canceled context.
func IsContextCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// Recover converts a panic into an error passed to onPanic. It must be deferred.
func Recover(onPanic func(cause error)) {
	rec := recover()
	if rec == nil {
		return
	}

	err, ok := rec.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", rec) //nolint:err113
	}

	onPanic(New(err))
}

// UnwrapMultiErrors flattens every error tree in err into the list of its leaves that are not multi errors.
func UnwrapMultiErrors(err error) []error {
	var (
		leaves  []error
		pending = []error{err}
	)

	for len(pending) > 0 {
		current := pending[0]
		pending = pending[1:]

		if joined := findJoined(current); joined != nil {
			pending = append(pending, joined...)
			continue
		}

		leaves = append(leaves, current)
	}

	return leaves
}

// findJoined returns the errors of the first multi error in the chain of err, or nil.
func findJoined(err error) []error {
	for ; err != nil; err = errors.Unwrap(err) {
		if multi, ok := err.(interface{ Unwrap() []error }); ok {
			return multi.Unwrap()
		}
	}

	return nil
}

package task

import (
	"fmt"

	"github.com/cradle-build/cradle/internal/errors"
)

// ErrMissingKey is matched by every MissingKeyError.
var ErrMissingKey = errors.New("missing key")

// MissingKeyError is returned when a task reads a key that was never set.
type MissingKeyError struct {
	Task string
	Key  string
	List bool
}

func (err MissingKeyError) Error() string {
	kind := "key"
	if err.List {
		kind = "list key"
	}

	return fmt.Sprintf("task %s: %s %q is not set", err.Task, kind, err.Key)
}

func (err MissingKeyError) Unwrap() error {
	return ErrMissingKey
}

// MissingBuilderFieldError is returned by a builder whose required field was not provided.
type MissingBuilderFieldError struct {
	Builder string
	Field   string
}

func (err MissingBuilderFieldError) Error() string {
	return fmt.Sprintf("%s: required field %q is not set", err.Builder, err.Field)
}

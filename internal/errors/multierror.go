package errors

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// MultiError collects the failures of independent units of work, such as the requested tasks of a keep-going run.
// The zero value is ready to use.
type MultiError struct {
	inner *multierror.Error
}

// Append returns a MultiError holding the errors of errs followed by appendErrs. Nil errors are dropped.
func (errs *MultiError) Append(appendErrs ...error) *MultiError {
	var inner *multierror.Error
	if errs != nil {
		inner = errs.inner
	}

	return &MultiError{inner: multierror.Append(inner, appendErrs...)}
}

// ErrorOrNil returns nil when no error was appended, so a MultiError can be returned as an error unconditionally.
func (errs *MultiError) ErrorOrNil() error {
	if errs.Len() == 0 {
		return nil
	}

	return errs
}

// WrappedErrors returns the appended errors, without flattening nested multi errors.
func (errs *MultiError) WrappedErrors() []error {
	if errs == nil || errs.inner == nil {
		return nil
	}

	return errs.inner.WrappedErrors()
}

func (errs *MultiError) Unwrap() []error {
	return errs.WrappedErrors()
}

// Len returns the number of appended errors.
func (errs *MultiError) Len() int {
	return len(errs.WrappedErrors())
}

// Error lists every leaf error as a bullet, indenting multi-line messages under their bullet.
func (errs *MultiError) Error() string {
	leaves := UnwrapMultiErrors(errs)

	var sb strings.Builder

	if len(leaves) == 1 {
		sb.WriteString("error occurred:\n")
	} else {
		fmt.Fprintf(&sb, "%d errors occurred:\n", len(leaves))
	}

	for _, err := range leaves {
		sb.WriteString("\n")
		sb.WriteString(bullet(err.Error()))
		sb.WriteString("\n")
	}

	return sb.String()
}

func bullet(msg string) string {
	lines := strings.Split(strings.ReplaceAll(msg, "\r\n", "\n"), "\n")
	for i := range lines {
		prefix := "  "
		if i == 0 {
			prefix = "* "
		}

		lines[i] = prefix + lines[i]
	}

	return strings.Join(lines, "\n")
}

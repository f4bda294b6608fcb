package config

import (
	"fmt"

	"github.com/hashicorp/go-version"
)

// ParseError is returned when the settings file cannot be decoded.
type ParseError struct {
	Err  error
	Path string
}

func (err ParseError) Error() string {
	return fmt.Sprintf("unable to parse %s: %v", err.Path, err.Err)
}

func (err ParseError) Unwrap() error {
	return err.Err
}

// MissingConfigError is returned when an explicitly requested settings file does not exist.
type MissingConfigError struct {
	Path string
}

func (err MissingConfigError) Error() string {
	return fmt.Sprintf("settings file %s does not exist", err.Path)
}

// InvalidCradleVersionError is returned when the running version does not satisfy `cradle_version_constraint`.
type InvalidCradleVersionError struct {
	CurrentVersion     *version.Version
	VersionConstraints version.Constraints
}

func (err InvalidCradleVersionError) Error() string {
	return fmt.Sprintf("the currently installed version of cradle (%s) is not compatible with the version constraint requiring (%s)", err.CurrentVersion.String(), err.VersionConstraints.String())
}

// WrongNumberOfParamsError is returned when a settings function is called with the wrong number of arguments.
type WrongNumberOfParamsError struct {
	Func     string
	Expected string
	Actual   int
}

func (err WrongNumberOfParamsError) Error() string {
	return fmt.Sprintf("expected %s params for function %s, but got %d", err.Expected, err.Func, err.Actual)
}

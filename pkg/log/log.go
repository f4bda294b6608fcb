// Package log provides a leveled logger with structured fields, carried through a run in the context.
package log

// std is returned by Default and by LoggerFromContext when the context carries no logger.
var std = New()

// Default returns the process-wide logger. Tests should build their own with New to keep output apart.
func Default() Logger {
	return std
}

package log

import (
	"github.com/sirupsen/logrus"
)

// Logger is the leveled logger used across cradle. It is backed by a logrus entry, so fields added with WithField
// stay with the returned logger only.
type Logger interface {
	// Clone returns a logger with its own output, level and formatter, so SetOptions on the clone leaves the
	// original untouched.
	Clone() Logger

	// SetOptions applies opts to the logger in place.
	SetOptions(opts ...Option)

	// WithOptions returns a clone with opts applied.
	WithOptions(opts ...Option) Logger

	Level() Level

	// SetLevel parses str and sets the level.
	SetLevel(str string) error

	WithField(key string, value any) Logger
	WithFields(fields Fields) Logger
	WithError(err error) Logger

	Logf(level Level, format string, args ...any)
	Tracef(format string, args ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)

	Log(level Level, args ...any)
	Trace(args ...any)
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
}

var _ Logger = new(logger)

type logger struct {
	*logrus.Entry
}

// New returns a logger at the info level writing to stderr with the logrus text formatter, then applies opts.
func New(opts ...Option) Logger {
	base := logrus.New()
	base.SetLevel(InfoLevel.ToLogrusLevel())

	logger := &logger{Entry: logrus.NewEntry(base)}
	logger.SetOptions(opts...)

	return logger
}

func (logger *logger) Clone() Logger {
	return logger.clone()
}

func (logger *logger) SetOptions(opts ...Option) {
	for _, opt := range opts {
		opt(logger)
	}
}

func (logger *logger) WithOptions(opts ...Option) Logger {
	if len(opts) == 0 {
		return logger
	}

	clone := logger.clone()
	clone.SetOptions(opts...)

	return clone
}

func (logger *logger) Level() Level {
	return FromLogrusLevel(logger.Logger.Level)
}

func (logger *logger) SetLevel(str string) error {
	level, err := ParseLevel(str)
	if err != nil {
		return err
	}

	logger.SetOptions(WithLevel(level))

	return nil
}

func (logger *logger) WithField(key string, value any) Logger {
	return logger.withEntry(logger.Entry.WithField(key, value))
}

func (logger *logger) WithFields(fields Fields) Logger {
	return logger.withEntry(logger.Entry.WithFields(logrus.Fields(fields)))
}

func (logger *logger) WithError(err error) Logger {
	return logger.withEntry(logger.Entry.WithError(err))
}

func (logger *logger) Logf(level Level, format string, args ...any) {
	logger.Entry.Logf(level.ToLogrusLevel(), format, args...)
}

func (logger *logger) Log(level Level, args ...any) {
	logger.Entry.Log(level.ToLogrusLevel(), args...)
}

func (logger *logger) Tracef(format string, args ...any) { logger.Logf(TraceLevel, format, args...) }
func (logger *logger) Debugf(format string, args ...any) { logger.Logf(DebugLevel, format, args...) }
func (logger *logger) Infof(format string, args ...any)  { logger.Logf(InfoLevel, format, args...) }
func (logger *logger) Warnf(format string, args ...any)  { logger.Logf(WarnLevel, format, args...) }
func (logger *logger) Errorf(format string, args ...any) { logger.Logf(ErrorLevel, format, args...) }

func (logger *logger) Trace(args ...any) { logger.Log(TraceLevel, args...) }
func (logger *logger) Debug(args ...any) { logger.Log(DebugLevel, args...) }
func (logger *logger) Info(args ...any)  { logger.Log(InfoLevel, args...) }
func (logger *logger) Warn(args ...any)  { logger.Log(WarnLevel, args...) }
func (logger *logger) Error(args ...any) { logger.Log(ErrorLevel, args...) }

// withEntry returns a logger sharing the underlying logrus logger but using entry for its fields.
func (logger *logger) withEntry(entry *logrus.Entry) *logger {
	child := *logger
	child.Entry = entry

	return &child
}

// clone copies the fields and gives the copy its own logrus logger configured like the original.
func (logger *logger) clone() *logger {
	entry := logger.Entry.Dup()
	parent := entry.Logger

	entry.Logger = logrus.New()
	entry.Logger.SetOutput(parent.Out)
	entry.Logger.SetLevel(parent.Level)
	entry.Logger.SetFormatter(parent.Formatter)
	entry.Logger.ReplaceHooks(parent.Hooks)

	return logger.withEntry(entry)
}

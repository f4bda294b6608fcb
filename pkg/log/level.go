package log

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cradle-build/cradle/internal/errors"
)

// Level is the severity of a log entry. Greater levels are more verbose.
type Level uint32

const (
	ErrorLevel Level = iota
	WarnLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

// levels maps every Level, in order of verbosity, to its name and its logrus counterpart.
var levels = []struct {
	name   string
	logrus logrus.Level
}{
	ErrorLevel: {"error", logrus.ErrorLevel},
	WarnLevel:  {"warn", logrus.WarnLevel},
	InfoLevel:  {"info", logrus.InfoLevel},
	DebugLevel: {"debug", logrus.DebugLevel},
	TraceLevel: {"trace", logrus.TraceLevel},
}

// ParseLevel parses a level name, ignoring case.
func ParseLevel(str string) (Level, error) {
	names := make([]string, 0, len(levels))

	for level, desc := range levels {
		if strings.EqualFold(desc.name, str) {
			return Level(level), nil
		}

		names = append(names, desc.name)
	}

	return ErrorLevel, errors.Errorf("invalid log level %q, expected one of: %s", str, strings.Join(names, ", "))
}

func (level Level) String() string {
	if int(level) < len(levels) {
		return levels[level].name
	}

	return ""
}

// ToLogrusLevel returns the logrus level of level. Unknown levels map to info.
func (level Level) ToLogrusLevel() logrus.Level {
	if int(level) < len(levels) {
		return levels[level].logrus
	}

	return logrus.InfoLevel
}

// FromLogrusLevel returns the Level of a logrus level. The logrus panic and fatal levels map to ErrorLevel.
func FromLogrusLevel(lvl logrus.Level) Level {
	for level, desc := range levels {
		if desc.logrus == lvl {
			return Level(level)
		}
	}

	return ErrorLevel
}

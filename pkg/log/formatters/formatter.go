// Package formatters contains the log formatters selectable with the --log-format flag.
package formatters

import (
	"sort"
	"strings"

	"github.com/cradle-build/cradle/internal/errors"
	"github.com/sirupsen/logrus"
)

// Formatter is a named logrus formatter.
type Formatter interface {
	logrus.Formatter

	// Name returns the value used to select the formatter.
	Name() string
}

// AllFormatters returns a fresh instance of every known formatter.
func AllFormatters() []Formatter {
	return []Formatter{
		NewPrettyFormatter(),
		NewKeyValueFormatter(),
		NewJSONFormatter(),
	}
}

// ParseFormat takes a format name and returns the matching Formatter. The pretty formatter accepts a
// `,no-color` suffix, e.g. `pretty,no-color`.
func ParseFormat(str string) (Formatter, error) {
	parts := strings.Split(str, ",")
	name := strings.ToLower(strings.TrimSpace(parts[0]))

	var names []string

	for _, formatter := range AllFormatters() {
		names = append(names, formatter.Name())

		if formatter.Name() != name {
			continue
		}

		for _, opt := range parts[1:] {
			switch strings.ToLower(strings.TrimSpace(opt)) {
			case "no-color":
				if pretty, ok := formatter.(*PrettyFormatter); ok {
					pretty.DisableColors = true
				}
			case "no-timestamp":
				if pretty, ok := formatter.(*PrettyFormatter); ok {
					pretty.DisableTimestamp = true
				}
			default:
				return nil, errors.Errorf("invalid option %q for log format %q", opt, name)
			}
		}

		return formatter, nil
	}

	sort.Strings(names)

	return nil, errors.Errorf("invalid format %q, supported formats: %s", str, strings.Join(names, ", "))
}

package log

import (
	"slices"
	"sort"
)

const (
	// FieldKeyPrefix is rendered as `[value]` before the message by the pretty formatter.
	FieldKeyPrefix = "prefix"
	FieldKeyTask   = "task"
)

// Fields are the structured key/value pairs attached to an entry.
type Fields map[string]any

// Keys returns the sorted field keys, without skipKeys.
func (fields Fields) Keys(skipKeys ...string) []string {
	keys := make([]string, 0, len(fields))

	for key := range fields {
		if !slices.Contains(skipKeys, key) {
			keys = append(keys, key)
		}
	}

	sort.Strings(keys)

	return keys
}

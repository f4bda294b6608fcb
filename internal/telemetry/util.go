package telemetry

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

var (
	invalidMetricNameChars = regexp.MustCompile(`[^A-Za-z0-9_./-]+`)
	repeatedUnderscores    = regexp.MustCompile(`__+`)
)

// CleanMetricName replaces the characters metric backends reject with underscores.
func CleanMetricName(name string) string {
	name = invalidMetricNameChars.ReplaceAllString(name, "_")
	name = repeatedUnderscores.ReplaceAllString(name, "_")

	return strings.Trim(name, "_")
}

// toAttributes converts attrs to attributes ordered by key. Unsupported values are formatted with %v.
func toAttributes(attrs map[string]any) []attribute.KeyValue {
	result := make([]attribute.KeyValue, 0, len(attrs))

	for _, key := range slices.Sorted(maps.Keys(attrs)) {
		var kv attribute.KeyValue

		switch val := attrs[key].(type) {
		case string:
			kv = attribute.String(key, val)
		case []string:
			kv = attribute.StringSlice(key, val)
		case bool:
			kv = attribute.Bool(key, val)
		case int:
			kv = attribute.Int(key, val)
		case int64:
			kv = attribute.Int64(key, val)
		case float64:
			kv = attribute.Float64(key, val)
		default:
			kv = attribute.String(key, fmt.Sprintf("%v", val))
		}

		result = append(result, kv)
	}

	return result
}

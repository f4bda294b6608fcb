// Package env reads settings from an environment captured as a map, so that a run and its tests never depend on the
// process environment directly.
package env

import (
	"strconv"
	"strings"
)

// NoColorEnvVar disables colors when set to any non-empty value, see https://no-color.org.
const NoColorEnvVar = "NO_COLOR"

// Parse converts `KEY=value` pairs, as returned by `os.Environ`, into a map. Entries without `=` are skipped.
func Parse(environ []string) map[string]string {
	env := make(map[string]string, len(environ))

	for _, variable := range environ {
		if key, val, ok := strings.Cut(variable, "="); ok {
			env[key] = val
		}
	}

	return env
}

// GetBoolEnv returns the environment value converted to boolean type, or returns the specified fallback value if the variable with the given key is not present.
func GetBoolEnv(env map[string]string, key string, fallback bool) bool {
	if strVal, ok := LookupEnv(env, key); ok {
		if val, err := strconv.ParseBool(strVal); err == nil {
			return val
		}
	}

	return fallback
}

// GetStringEnv returns an environment variable by the given key, or returns the given fallback value if the env variable is not present.
func GetStringEnv(env map[string]string, key string, fallback string) string {
	if val, ok := LookupEnv(env, key); ok {
		return val
	}

	return fallback
}

// LookupEnv returns the value of key with surrounding spaces trimmed. A blank value counts as not present.
func LookupEnv(env map[string]string, key string) (string, bool) {
	if key == "" {
		return "", false
	}

	val := strings.TrimSpace(env[key])

	return val, val != ""
}

// IsNoColor returns true if the NO_COLOR convention asks for plain output.
func IsNoColor(env map[string]string) bool {
	_, ok := LookupEnv(env, NoColorEnvVar)
	return ok
}

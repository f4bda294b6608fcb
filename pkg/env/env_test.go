package env_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cradle-build/cradle/pkg/env"
)

func TestParse(t *testing.T) {
	t.Parallel()

	parsed := env.Parse([]string{"A=1", "B=x=y", "EMPTY=", "broken"})
	assert.Equal(t, map[string]string{"A": "1", "B": "x=y", "EMPTY": ""}, parsed)
}

func TestGetBoolEnv(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		value    string
		fallback bool
		expected bool
	}{
		"unset-uses-fallback":    {value: "", fallback: true, expected: true},
		"unset-false-fallback":   {value: "", fallback: false, expected: false},
		"explicit-false":         {value: "false", fallback: true, expected: false},
		"zero":                   {value: "0", fallback: true, expected: false},
		"padded-true":            {value: " TRUE ", fallback: false, expected: true},
		"one":                    {value: "1", fallback: false, expected: true},
		"garbage-keeps-fallback": {value: "yes please", fallback: true, expected: true},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			vars := map[string]string{"CRADLE_KEEP_GOING": tc.value}
			assert.Equal(t, tc.expected, env.GetBoolEnv(vars, "CRADLE_KEEP_GOING", tc.fallback))
		})
	}
}

func TestGetStringEnv(t *testing.T) {
	t.Parallel()

	vars := map[string]string{"SET": " value ", "BLANK": "  "}

	assert.Equal(t, "value", env.GetStringEnv(vars, "SET", "fallback"))
	assert.Equal(t, "fallback", env.GetStringEnv(vars, "BLANK", "fallback"))
	assert.Equal(t, "fallback", env.GetStringEnv(vars, "UNSET", "fallback"))
	assert.Equal(t, "fallback", env.GetStringEnv(nil, "", "fallback"))
}

func TestIsNoColor(t *testing.T) {
	t.Parallel()

	assert.True(t, env.IsNoColor(map[string]string{env.NoColorEnvVar: "1"}))
	assert.False(t, env.IsNoColor(map[string]string{env.NoColorEnvVar: ""}))
	assert.False(t, env.IsNoColor(nil))
}

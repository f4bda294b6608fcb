package formatters_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/cradle-build/cradle/pkg/log"
	"github.com/cradle-build/cradle/pkg/log/formatters"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		str          string
		expectedName string
		expectedErr  bool
	}{
		{str: "pretty", expectedName: formatters.PrettyFormatterName},
		{str: "PRETTY,no-color", expectedName: formatters.PrettyFormatterName},
		{str: "json", expectedName: formatters.JSONFormatterName},
		{str: "key-value", expectedName: formatters.KeyValueFormatterName},
		{str: "yaml", expectedErr: true},
		{str: "pretty,bold", expectedErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.str, func(t *testing.T) {
			t.Parallel()

			formatter, err := formatters.ParseFormat(tc.str)
			if tc.expectedErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedName, formatter.Name())
		})
	}
}

func TestPrettyFormatter(t *testing.T) {
	t.Parallel()

	formatter := formatters.NewPrettyFormatter()
	formatter.DisableTimestamp = true

	var buf bytes.Buffer

	logger := log.New(log.WithOutput(&buf), log.WithFormatter(formatter))
	logger.WithField(log.FieldKeyPrefix, "lib").WithField("file", "a b.cpp").Info("compiling")

	out := formatters.RemoveAllANSISeq(buf.String())
	assert.Equal(t, "INFO   [lib] compiling file=\"a b.cpp\"\n", out)
}

func TestPrettyFormatterNoColor(t *testing.T) {
	t.Parallel()

	formatter, err := formatters.ParseFormat("pretty,no-color,no-timestamp")
	require.NoError(t, err)

	var buf bytes.Buffer

	logger := log.New(log.WithOutput(&buf), log.WithFormatter(formatter))
	logger.Warn("stale")

	assert.Equal(t, "WARN   stale\n", buf.String())
}

func TestKeyValueFormatter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := log.New(log.WithOutput(&buf), log.WithFormatter(formatters.NewKeyValueFormatter()))
	logger.WithField(log.FieldKeyTask, "lib").Error("action failed")

	assert.Contains(t, buf.String(), `level=error msg="action failed" task=lib`)
}

func TestJSONFormatter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := log.New(log.WithOutput(&buf), log.WithFormatter(formatters.NewJSONFormatter()))
	logger.WithField(log.FieldKeyTask, "lib").Info("done")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "done", entry["msg"])
	assert.Equal(t, "lib", entry["task"])
}

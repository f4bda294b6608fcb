package log_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/cradle-build/cradle/pkg/log"
	"github.com/cradle-build/cradle/pkg/log/formatters"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		str           string
		expectedLevel log.Level
		expectedErr   bool
	}{
		{str: "error", expectedLevel: log.ErrorLevel},
		{str: "WARN", expectedLevel: log.WarnLevel},
		{str: "info", expectedLevel: log.InfoLevel},
		{str: "debug", expectedLevel: log.DebugLevel},
		{str: "trace", expectedLevel: log.TraceLevel},
		{str: "fatal", expectedErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.str, func(t *testing.T) {
			t.Parallel()

			level, err := log.ParseLevel(tc.str)
			if tc.expectedErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedLevel, level)
		})
	}
}

func TestCloneDoesNotLeakFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	formatter := formatters.NewKeyValueFormatter()
	parent := log.New(log.WithOutput(&buf), log.WithFormatter(formatter))
	child := parent.Clone().WithField("task", "lib")
	child.SetOptions(log.WithLevel(log.DebugLevel))

	parent.Debug("hidden")
	parent.Info("parent")
	child.Debug("child")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=parent\n")
	assert.Contains(t, out, "msg=child task=lib")
	assert.Equal(t, log.InfoLevel, parent.Level())
}

func TestLoggerFromContext(t *testing.T) {
	t.Parallel()

	assert.Equal(t, log.Default(), log.LoggerFromContext(context.Background()))

	logger := log.New()
	ctx := log.ContextWithLogger(context.Background(), logger)
	assert.Equal(t, logger, log.LoggerFromContext(ctx))
}

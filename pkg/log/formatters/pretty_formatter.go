package formatters

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cradle-build/cradle/pkg/log"
)

const (
	PrettyFormatterName = "pretty"

	prettyTimestampFormat = "15:04:05.000"
)

var _ Formatter = new(PrettyFormatter)

// PrettyFormatter writes human readable lines: `15:04:05.000 INFO   [prefix] message key=value`.
type PrettyFormatter struct {
	TimestampFormat  string
	DisableTimestamp bool
	DisableColors    bool

	palette palette
}

func NewPrettyFormatter() *PrettyFormatter {
	return &PrettyFormatter{
		TimestampFormat: prettyTimestampFormat,
		palette:         newPalette(),
	}
}

func (formatter *PrettyFormatter) Name() string {
	return PrettyFormatterName
}

func (formatter *PrettyFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	buf := entry.Buffer
	if buf == nil {
		buf = new(bytes.Buffer)
	}

	colors := formatter.palette
	if formatter.DisableColors {
		colors = palette{}
	}

	level := log.FromLogrusLevel(entry.Level)
	fields := log.Fields(entry.Data)

	if !formatter.DisableTimestamp && formatter.TimestampFormat != "" {
		buf.WriteString(colors.or(colors.timestamp)(entry.Time.Format(formatter.TimestampFormat)))
		buf.WriteByte(' ')
	}

	buf.WriteString(colors.level(level)(fmt.Sprintf("%-6s", strings.ToUpper(level.String()))))
	buf.WriteByte(' ')

	if prefix, ok := fields[log.FieldKeyPrefix].(string); ok && prefix != "" {
		buf.WriteString(colors.or(colors.prefix)("[" + prefix + "]"))
		buf.WriteByte(' ')
	}

	buf.WriteString(entry.Message)

	for _, key := range fields.Keys(log.FieldKeyPrefix) {
		fmt.Fprintf(buf, " %s=%s", colors.or(colors.fieldKey)(key), formatValue(fields[key]))
	}

	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

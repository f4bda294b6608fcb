package formatters

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/cradle-build/cradle/internal/errors"
	"github.com/cradle-build/cradle/pkg/log"
	"github.com/sirupsen/logrus"
)

const KeyValueFormatterName = "key-value"

var _ Formatter = new(KeyValueFormatter)

// KeyValueFormatter prints every entry as `time=... level=... msg=... key=value` without colors.
type KeyValueFormatter struct{}

func NewKeyValueFormatter() *KeyValueFormatter {
	return &KeyValueFormatter{}
}

// Name implements Formatter
func (formatter *KeyValueFormatter) Name() string {
	return KeyValueFormatterName
}

// Format implements logrus.Formatter
func (formatter *KeyValueFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	buf := entry.Buffer
	if buf == nil {
		buf = new(bytes.Buffer)
	}

	fields := log.Fields(entry.Data)

	if _, err := fmt.Fprintf(buf, "time=%s level=%s msg=%s",
		entry.Time.Format(time.RFC3339),
		log.FromLogrusLevel(entry.Level),
		formatValue(entry.Message),
	); err != nil {
		return nil, errors.New(err)
	}

	for _, key := range fields.Keys() {
		if _, err := fmt.Fprintf(buf, " %s=%s", key, formatValue(fields[key])); err != nil {
			return nil, errors.New(err)
		}
	}

	if err := buf.WriteByte('\n'); err != nil {
		return nil, errors.New(err)
	}

	return buf.Bytes(), nil
}

// formatValue quotes values containing whitespace or quotes.
func formatValue(value any) string {
	var str string

	switch val := value.(type) {
	case string:
		str = val
	case error:
		str = val.Error()
	default:
		str = fmt.Sprint(val)
	}

	if strings.ContainsAny(str, " \t\n\"=") {
		return fmt.Sprintf("%q", str)
	}

	return str
}

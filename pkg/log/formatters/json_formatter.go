package formatters

import (
	"github.com/sirupsen/logrus"
)

const JSONFormatterName = "json"

var _ Formatter = new(JSONFormatter)

// JSONFormatter writes one JSON object per entry.
type JSONFormatter struct {
	logrus.JSONFormatter
}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Name implements Formatter
func (formatter *JSONFormatter) Name() string {
	return JSONFormatterName
}

package formatters

import (
	"github.com/mgutz/ansi"

	"github.com/cradle-build/cradle/pkg/log"
)

type colorFunc func(string) string

func noColor(str string) string { return str }

// palette holds the colorizers of the pretty formatter. The zero value does not color anything.
type palette struct {
	levels    map[log.Level]colorFunc
	prefix    colorFunc
	timestamp colorFunc
	fieldKey  colorFunc
}

func newPalette() palette {
	return palette{
		levels: map[log.Level]colorFunc{
			log.ErrorLevel: ansi.ColorFunc("red"),
			log.WarnLevel:  ansi.ColorFunc("yellow"),
			log.InfoLevel:  ansi.ColorFunc("green"),
			log.DebugLevel: ansi.ColorFunc("blue+h"),
			log.TraceLevel: ansi.ColorFunc("white"),
		},
		prefix:    ansi.ColorFunc("cyan"),
		timestamp: ansi.ColorFunc("black+h"),
		fieldKey:  ansi.ColorFunc("magenta"),
	}
}

func (p palette) level(level log.Level) colorFunc {
	if fn, ok := p.levels[level]; ok {
		return fn
	}

	return noColor
}

func (p palette) or(fn colorFunc) colorFunc {
	if fn == nil {
		return noColor
	}

	return fn
}

package report

import (
	"time"

	"github.com/mgutz/ansi"
)

// Colorizer is a colorizer for the run summary output.
type Colorizer struct {
	headingColorizer     func(string) string
	successColorizer     func(string) string
	failureColorizer     func(string) string
	skipColorizer        func(string) string
	millisecondColorizer func(string) string
	secondColorizer      func(string) string
	minuteColorizer      func(string) string
	paddingColorizer     func(string) string
}

// NewColorizer creates a new Colorizer.
func NewColorizer(shouldColor bool) *Colorizer {
	if !shouldColor {
		noColor := func(s string) string { return s }

		return &Colorizer{
			headingColorizer:     noColor,
			successColorizer:     noColor,
			failureColorizer:     noColor,
			skipColorizer:        noColor,
			millisecondColorizer: noColor,
			secondColorizer:      noColor,
			minuteColorizer:      noColor,
			paddingColorizer:     noColor,
		}
	}

	return &Colorizer{
		headingColorizer:     ansi.ColorFunc("yellow+bh"),
		successColorizer:     ansi.ColorFunc("green+bh"),
		failureColorizer:     ansi.ColorFunc("red+bh"),
		skipColorizer:        ansi.ColorFunc("yellow+bh"),
		millisecondColorizer: ansi.ColorFunc("cyan+bh"),
		secondColorizer:      ansi.ColorFunc("green+bh"),
		minuteColorizer:      ansi.ColorFunc("yellow+bh"),
		paddingColorizer:     ansi.ColorFunc("white+d"),
	}
}

func (c *Colorizer) colorDuration(duration time.Duration) string {
	switch {
	case duration < time.Second:
		return c.millisecondColorizer(duration.Round(time.Millisecond).String())
	case duration < time.Minute:
		return c.secondColorizer(duration.Round(10 * time.Millisecond).String())
	default:
		return c.minuteColorizer(duration.Round(time.Second).String())
	}
}

func (c *Colorizer) colorResult(result Result) string {
	switch result {
	case ResultSucceeded:
		return c.successColorizer(string(result))
	case ResultFailed:
		return c.failureColorizer(string(result))
	default:
		return c.skipColorizer(string(result))
	}
}

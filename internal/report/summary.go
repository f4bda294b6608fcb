package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cradle-build/cradle/internal/errors"
)

const summaryLabelWidth = 14

// Summary formats data from a report for output as a summary.
type Summary struct {
	firstRunStart *time.Time
	lastRunEnd    *time.Time
	runs          []*Run
	Succeeded     int
	Failed        int
	Skipped       int
}

// Summarize returns a summary of the report.
func (r *Report) Summarize() *Summary {
	summary := &Summary{runs: r.Runs()}

	for _, run := range summary.runs {
		summary.Update(run)
	}

	return summary
}

// Update counts run in the summary.
func (s *Summary) Update(run *Run) {
	switch run.Result {
	case ResultSucceeded:
		s.Succeeded++
	case ResultFailed:
		s.Failed++
	case ResultSkipped:
		s.Skipped++
	}

	if s.firstRunStart == nil || run.Started.Before(*s.firstRunStart) {
		started := run.Started
		s.firstRunStart = &started
	}

	if s.lastRunEnd == nil || run.Ended.After(*s.lastRunEnd) {
		ended := run.Ended
		s.lastRunEnd = &ended
	}
}

// TotalRuns returns the number of recorded runs.
func (s *Summary) TotalRuns() int {
	return len(s.runs)
}

// TotalDuration returns the time between the start of the first run and the end of the last one.
func (s *Summary) TotalDuration() time.Duration {
	if s.firstRunStart == nil || s.lastRunEnd == nil {
		return 0
	}

	return s.lastRunEnd.Sub(*s.firstRunStart)
}

// WriteSummary writes the summary of the report to w.
func (r *Report) WriteSummary(w io.Writer, shouldColor bool) error {
	return r.Summarize().Write(w, shouldColor)
}

// Write writes the summary to w. Failed and skipped tasks are listed by name.
func (s *Summary) Write(w io.Writer, shouldColor bool) error {
	colorizer := NewColorizer(shouldColor)

	header := fmt.Sprintf("%s %d tasks  %s", colorizer.headingColorizer("❯❯ Run Summary"), s.TotalRuns(), colorizer.colorDuration(s.TotalDuration()))

	lines := []string{header, "   " + colorizer.paddingColorizer(strings.Repeat("─", summaryLabelWidth+10))}

	for _, entry := range []struct {
		result Result
		count  int
	}{
		{ResultSucceeded, s.Succeeded},
		{ResultFailed, s.Failed},
		{ResultSkipped, s.Skipped},
	} {
		if entry.count == 0 {
			continue
		}

		label := colorizer.colorResult(entry.result)
		padding := colorizer.paddingColorizer(strings.Repeat(".", summaryLabelWidth-len(entry.result)))
		lines = append(lines, fmt.Sprintf("   %s %s %d", label, padding, entry.count))
	}

	for _, run := range s.runs {
		if run.Result == ResultSucceeded {
			continue
		}

		lines = append(lines, fmt.Sprintf("      %s %s", colorizer.colorResult(run.Result), run.Name))
	}

	if _, err := fmt.Fprintln(w, strings.Join(lines, "\n")); err != nil {
		return errors.New(err)
	}

	return nil
}

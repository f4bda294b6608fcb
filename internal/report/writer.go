package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cradle-build/cradle/internal/errors"
)

// JSONRun is the JSON representation of a run.
type JSONRun struct {
	Started    time.Time `json:"Started"`
	Ended      time.Time `json:"Ended"`
	Name       string    `json:"Name"`
	Result     string    `json:"Result"`
	Reason     string    `json:"Reason,omitempty"`
	DurationMs int64     `json:"DurationMs"`
}

// WriteToFile writes the report to path, as CSV when the extension is .csv and as JSON otherwise.
func (r *Report) WriteToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return errors.New(err)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.New(err)
	}
	defer file.Close() //nolint:errcheck

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return r.WriteCSV(file)
	}

	return r.WriteJSON(file)
}

// WriteJSON writes the report as a JSON array of runs.
func (r *Report) WriteJSON(w io.Writer) error {
	runs := r.Runs()
	jsonRuns := make([]JSONRun, 0, len(runs))

	for _, run := range runs {
		jsonRuns = append(jsonRuns, JSONRun{
			Name:       run.Name,
			Started:    run.Started,
			Ended:      run.Ended,
			Result:     string(run.Result),
			Reason:     run.Reason,
			DurationMs: run.Duration().Milliseconds(),
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(jsonRuns); err != nil {
		return errors.New(err)
	}

	return nil
}

// WriteCSV writes the report as CSV with a header row.
func (r *Report) WriteCSV(w io.Writer) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write([]string{"Name", "Started", "Ended", "Result", "Reason", "DurationMs"}); err != nil {
		return errors.New(err)
	}

	for _, run := range r.Runs() {
		record := []string{
			run.Name,
			run.Started.Format(time.RFC3339),
			run.Ended.Format(time.RFC3339),
			string(run.Result),
			run.Reason,
			strconv.FormatInt(run.Duration().Milliseconds(), 10),
		}

		if err := csvWriter.Write(record); err != nil {
			return errors.New(err)
		}
	}

	csvWriter.Flush()

	if err := csvWriter.Error(); err != nil {
		return errors.New(err)
	}

	return nil
}

package report

import (
	"fmt"
	"io"

	"github.com/nao1215/precheck/internal/model"
)

// Writer outputs a run report in some format.
//
// Design decision: an interface so the same report can go to the
// terminal, the summary file in the run directory, or both via
// MultiWriter.
type Writer interface {
	// Write outputs the run report to the configured destination.
	// Returns the number of bytes written.
	Write(run *model.RunReport) (int, error)
}

// MultiWriter writes a report to multiple Writers, e.g. terminal and
// summary file. It stops on the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers and returns the
// total bytes written.
func (m *MultiWriter) Write(run *model.RunReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(run)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides the shared output destination for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// formatScore renders an optional score with its band, N/A when absent.
func formatScore(score *int) string {
	if score == nil {
		return "N/A"
	}
	var band string
	switch {
	case *score >= 90:
		band = "Excellent"
	case *score >= 70:
		band = "Good"
	case *score >= 50:
		band = "Needs Improvement"
	default:
		band = "Poor"
	}
	return fmt.Sprintf("%d (%s)", *score, band)
}

// formatAverage renders an optional average with one decimal, N/A when
// absent.
func formatAverage(avg *float64) string {
	if avg == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", *avg)
}

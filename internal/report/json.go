package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/precheck/internal/model"
)

// JSONWriter outputs run reports in JSON format for tool integration.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed output.
	indent       bool
	indentPrefix string
	indentString string

	// version is embedded in the output when set.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output with the given prefix
// and per-level indent.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentString = "  "
	}
}

// WithVersion embeds the tool version in the output.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// jsonRun wraps the run report with output metadata.
type jsonRun struct {
	// Version of the tool that generated this report, when known.
	Version string `json:"version,omitempty"`

	// Run is the full run report.
	Run *model.RunReport `json:"run"`

	// Totals are the run-level aggregates for quick access.
	Totals model.RunTotals `json:"totals"`
}

// Write outputs the run report as JSON. Missing per-site summaries are
// computed first so the output is self-contained.
func (w *JSONWriter) Write(run *model.RunReport) (int, error) {
	for _, site := range run.Sites {
		if site.Summary == nil {
			site.Summary = model.NewSummary(site)
		}
	}

	wrapped := jsonRun{
		Version: w.version,
		Run:     run,
		Totals:  run.Totals(),
	}

	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(wrapped, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(wrapped)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}

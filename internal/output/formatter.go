// Package output handles formatting and rendering of tool results and
// build plans.
package output

import (
	"fmt"
	"io"

	"github.com/whiskeyjimb/sitetools/internal/env"
	"github.com/whiskeyjimb/sitetools/internal/result"
)

// Formatter renders results and row listings to a writer.
type Formatter interface {
	// Format writes a single result.
	Format(w io.Writer, r result.Result) error

	// FormatList writes rows, each a map keyed by the given columns.
	FormatList(w io.Writer, columns []string, rows []map[string]any) error
}

// NewFormatter returns a Formatter for the given format name.
// Supported formats: "json", "table", "yaml", "quiet".
func NewFormatter(format string) (Formatter, error) {
	switch format {
	case "json":
		return &JSONFormatter{}, nil
	case "table":
		return &TableFormatter{}, nil
	case "yaml":
		return &YAMLFormatter{}, nil
	case "quiet":
		return &QuietFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %q (supported: json, table, yaml, quiet)", format)
	}
}

// StepColumns are the columns FormatSteps renders.
var StepColumns = []string{"builder", "sources", "targets", "command"}

// FormatSteps renders a build plan with f.
func FormatSteps(f Formatter, w io.Writer, steps []env.Step) error {
	rows := make([]map[string]any, len(steps))
	for i, s := range steps {
		rows[i] = map[string]any{
			"builder": s.Builder,
			"sources": s.Sources,
			"targets": s.Targets,
			"command": s.Command,
		}
	}
	return f.FormatList(w, StepColumns, rows)
}

// QuietFormatter produces no output. The exit code conveys the result.
// Exit 0 for success, exit 1 for failure/error.
type QuietFormatter struct{}

func (f *QuietFormatter) Format(io.Writer, result.Result) error { return nil }

func (f *QuietFormatter) FormatList(io.Writer, []string, []map[string]any) error { return nil }

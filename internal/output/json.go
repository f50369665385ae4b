package output

import (
	"encoding/json"
	"io"

	"github.com/whiskeyjimb/sitetools/internal/result"
)

// JSONFormatter outputs results as pretty-printed JSON.
type JSONFormatter struct{}

// Format writes the result data as indented JSON.
// If the result has a non-success status, it prints the full result.
// Otherwise, it prints only result.Data for clean piping to jq.
func (f *JSONFormatter) Format(w io.Writer, r result.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if r.IsSuccess() && r.Data != nil {
		return enc.Encode(r.Data)
	}

	// For failures/errors, output the full result including status and error details
	return enc.Encode(r)
}

// FormatList writes rows as a JSON array.
func (f *JSONFormatter) FormatList(w io.Writer, _ []string, rows []map[string]any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if rows == nil {
		rows = []map[string]any{}
	}
	return enc.Encode(rows)
}

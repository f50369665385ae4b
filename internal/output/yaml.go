package output

import (
	"io"

	"github.com/whiskeyjimb/sitetools/internal/result"
	"gopkg.in/yaml.v3"
)

// YAMLFormatter outputs results as YAML.
type YAMLFormatter struct{}

// Format writes the result data as YAML.
func (f *YAMLFormatter) Format(w io.Writer, r result.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	if r.IsSuccess() && r.Data != nil {
		return enc.Encode(r.Data)
	}

	return enc.Encode(r)
}

// FormatList writes rows as a YAML sequence.
func (f *YAMLFormatter) FormatList(w io.Writer, _ []string, rows []map[string]any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	if rows == nil {
		rows = []map[string]any{}
	}
	return enc.Encode(rows)
}

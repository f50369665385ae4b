package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/samber/lo"
	"github.com/whiskeyjimb/sitetools/internal/result"
)

// TableFormatter outputs results as a human-readable table.
type TableFormatter struct{}

// Format renders r.Data as a two-column key/value table.
func (f *TableFormatter) Format(w io.Writer, r result.Result) error {
	if !r.IsSuccess() {
		// For non-success, print status and message
		_, _ = fmt.Fprintf(w, "Status: %s\n", r.Status)
		if r.Message != "" {
			_, _ = fmt.Fprintf(w, "Message: %s\n", r.Message)
		}
		if r.Error != nil {
			_, _ = fmt.Fprintf(w, "Error: [%s] %s\n", r.Error.Type, r.Error.Message)
		}
		return nil
	}

	if len(r.Data) == 0 {
		if r.Message != "" {
			_, _ = fmt.Fprintln(w, r.Message)
			return nil
		}
		_, _ = fmt.Fprintln(w, "(no data)")
		return nil
	}

	table := newTable(w)
	table.Header("Key", "Value")
	for _, k := range sortedKeys(r.Data) {
		table.Append(k, formatValue(r.Data[k]))
	}
	return table.Render()
}

// FormatList renders one row per entry with title-cased column headers.
func (f *TableFormatter) FormatList(w io.Writer, columns []string, rows []map[string]any) error {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(no data)")
		return nil
	}

	table := newTable(w)

	// Header: convert snake_case to Title Case
	headers := lo.Map(columns, func(c string, _ int) any { return snakeToTitle(c) })
	table.Header(headers...)

	for _, row := range rows {
		cells := lo.Map(columns, func(c string, _ int) any { return formatValue(row[c]) })
		table.Append(cells...)
	}

	return table.Render()
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{Top: tw.On, Bottom: tw.On, Left: tw.On, Right: tw.On},
		}),
	)
}

// sortedKeys returns the sorted keys of a map.
func sortedKeys(m map[string]any) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}

// snakeToTitle converts "record_type" to "Record Type".
func snakeToTitle(s string) string {
	parts := strings.Split(s, "_")
	for i, p := range parts {
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}

// formatValue converts a value to a display string.
func formatValue(v any) string {
	if v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		// JSON numbers are float64; show as int if no fraction
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%.2f", val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case []string:
		return strings.Join(val, " ")
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = formatValue(item)
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		b, _ := json.Marshal(val)
		return string(b)
	default:
		return fmt.Sprintf("%v", val)
	}
}

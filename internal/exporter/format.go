package exporter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"divstreak/internal/dividend"
)

// Format is an output encoding for ranking rows.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatXLSX     Format = "xlsx"
)

// ParseFormat accepts md, markdown, csv, json and xlsx in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "md", "markdown":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want md, csv, json or xlsx)", s)
	}
}

// Binary reports whether the format cannot be written to a terminal.
func (f Format) Binary() bool {
	return f == FormatXLSX
}

// ContentType is the media type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/markdown; charset=utf-8"
	}
}

// Extension is the file extension for the format, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// Write encodes rows in format f. JSON output is the bare row array and
// title is only used by markdown.
func Write(w io.Writer, f Format, title string, rows []dividend.RankingRow) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatJSON:
		if rows == nil {
			rows = []dividend.RankingRow{}
		}
		return WriteJSON(w, rows)
	case FormatXLSX:
		return WriteXLSX(w, rows)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(title, rows))
		return err
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
}

// formatFloat formats a value with exactly 2 decimal places
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatCAGR renders a missing CAGR as the empty string
func formatCAGR(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

// formatDPS keeps the precision of the input
func formatDPS(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

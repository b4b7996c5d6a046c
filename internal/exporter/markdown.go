package exporter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"divstreak/internal/dividend"
)

// NoData is printed in place of an empty table.
const NoData = "no data"

// Markdown renders rows as a markdown document with an optional title.
func Markdown(title string, rows []dividend.RankingRow) string {
	var b strings.Builder

	if title != "" {
		fmt.Fprintf(&b, "# %s\n\n", title)
	}

	if len(rows) == 0 {
		b.WriteString(NoData + "\n")
		return b.String()
	}

	b.WriteString("| Code | Name | Market | Streak | 5y CAGR % | Latest FY | Latest DPS |\n")
	b.WriteString("|:-----|:-----|:-------|-------:|----------:|----------:|-----------:|\n")
	for _, r := range rows {
		cagr := formatCAGR(r.CAGR)
		if cagr == "" {
			cagr = "-"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %s | %d | %s |\n",
			escapeCell(r.Code), escapeCell(r.Name), escapeCell(r.Market),
			r.Streak, cagr, r.LatestYear, formatDPS(r.LatestDPS))
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// RenderTerminal styles markdown for a terminal. style is a glamour
// standard style name such as "dark", "light" or "notty"; width <= 0
// disables word wrapping.
func RenderTerminal(md, style string, width int) (string, error) {
	if style == "" {
		style = "notty"
	}
	if width < 0 {
		width = 0
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}

	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

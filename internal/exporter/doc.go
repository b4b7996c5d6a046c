// Package exporter writes ranking rows for people and spreadsheets.
//
// Tabular formats share the column layout in Headers:
//
//   - CSV with a UTF-8 byte order mark so Excel detects the encoding
//   - XLSX with a bold, frozen header row on the "Ranking" sheet
//   - JSON of any value, indented
//   - Markdown, optionally styled for a terminal with RenderTerminal
//
// A missing CAGR is written as an empty cell (CSV, XLSX), null (JSON) or
// "-" (Markdown).
//
// Example usage:
//
//	rows := ranking.Apply(result.Rows, ranking.Filter{MinStreak: 3})
//	if err := exporter.SaveCSV("out/ranking.csv", rows); err != nil {
//	    return err
//	}
package exporter

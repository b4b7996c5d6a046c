package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"divstreak/internal/dividend"
)

// History describes one entity's consecutive fiscal years of dividends.
type History struct {
	Code   string
	Name   string
	Market string
	From   int
	DPS    []float64
}

// SampleHistories is a small universe with known results:
//
//	1001 Prime    2018-2023 steady growth, streak 5, CAGR 14.87
//	1002 Prime    2018-2023 cut in 2021,   streak 2
//	1003 Standard 2020-2023 flat,          streak 0, CAGR nil (short history)
//	1004 Growth   2016-2023 rising,        streak 7
func SampleHistories() []History {
	return []History{
		{Code: "1001", Name: "Alpha Foods", Market: "Prime", From: 2018, DPS: []float64{10, 11.5, 13, 15, 17.5, 20}},
		{Code: "1002", Name: "Beta Rail", Market: "Prime", From: 2018, DPS: []float64{20, 22, 24, 18, 19, 21}},
		{Code: "1003", Name: "Gamma Soft", Market: "Standard", From: 2020, DPS: []float64{5, 5, 5, 5}},
		{Code: "1004", Name: "Delta Chem", Market: "Growth", From: 2016, DPS: []float64{1, 2, 3, 4, 5, 6, 7, 8}},
	}
}

// Columns is the column order used by the fixture writers.
var Columns = []string{
	dividend.ColumnCode,
	dividend.ColumnName,
	dividend.ColumnMarket,
	dividend.ColumnFiscalYear,
	dividend.ColumnDPS,
}

// Rows flattens histories into string rows in Columns order.
func Rows(histories []History) [][]string {
	var rows [][]string
	for _, h := range histories {
		for i, dps := range h.DPS {
			rows = append(rows, []string{
				h.Code,
				h.Name,
				h.Market,
				strconv.Itoa(h.From + i),
				strconv.FormatFloat(dps, 'f', -1, 64),
			})
		}
	}
	return rows
}

// Table builds an in-memory table from histories.
func Table(histories []History) dividend.Table {
	var records []dividend.RawRecord
	for _, h := range histories {
		for i, dps := range h.DPS {
			records = append(records, dividend.RawRecord{
				dividend.ColumnCode:       h.Code,
				dividend.ColumnName:       h.Name,
				dividend.ColumnMarket:     h.Market,
				dividend.ColumnFiscalYear: h.From + i,
				dividend.ColumnDPS:        dps,
			})
		}
	}
	return dividend.NewTable(records)
}

// WriteCSV writes histories to name inside a temp directory and returns
// the full path.
func WriteCSV(t *testing.T, name string, histories []History) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Columns); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if err := w.WriteAll(Rows(histories)); err != nil {
		t.Fatalf("write rows: %v", err)
	}
	return path
}

// WriteFile writes raw content to name inside a temp directory.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// MustFind returns the ranking row for code or fails the test.
func MustFind(t *testing.T, r *dividend.Ranking, code string) dividend.RankingRow {
	t.Helper()

	row, ok := r.Row(code)
	if !ok {
		t.Fatalf("no ranking row for %s", code)
	}
	return row
}

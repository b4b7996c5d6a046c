package exporter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"divstreak/internal/dividend"
)

func ptr(f float64) *float64 { return &f }

func sampleRows() []dividend.RankingRow {
	return []dividend.RankingRow{
		{Code: "1001", Name: "Alpha Foods", Market: "Prime", Streak: 5, CAGR: ptr(14.87), LatestYear: 2023, LatestDPS: 20, Years: 6},
		{Code: "1003", Name: "Gamma, Soft", Market: "Standard", Streak: 0, CAGR: nil, LatestYear: 2023, LatestDPS: 5.25, Years: 4},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows()))

	data := buf.Bytes()
	require.True(t, bytes.HasPrefix(data, utf8BOM), "missing BOM")

	records, err := csv.NewReader(bytes.NewReader(data[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Headers, records[0])
	assert.Equal(t, []string{"1001", "Alpha Foods", "Prime", "5", "14.87", "2023", "20", "6"}, records[1])
	// Commas are quoted and a nil CAGR is empty
	assert.Equal(t, []string{"1003", "Gamma, Soft", "Standard", "0", "", "2023", "5.25", "4"}, records[2])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, string(utf8BOM)+strings.Join(Headers, ",")+"\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteCSV_WriterError(t *testing.T) {
	err := WriteCSV(failingWriter{}, sampleRows())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestSaveCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "ranking.csv")
	require.NoError(t, SaveCSV(path, sampleRows()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, utf8BOM))
	assert.Contains(t, string(data), "1001,Alpha Foods,Prime,5,14.87,2023,20,6")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleRows()))

	out := buf.String()
	assert.Contains(t, out, `"cagr": 14.87`)
	assert.Contains(t, out, `"cagr": null`)
	assert.True(t, strings.HasSuffix(out, "\n"))

	assert.Error(t, WriteJSON(&buf, func() {}))
}

func TestSaveXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ranking.xlsx")
	require.NoError(t, SaveXLSX(path, sampleRows()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Headers, rows[0])
	assert.Equal(t, "1001", rows[1][0])
	assert.Equal(t, "14.87", rows[1][4])
	assert.Equal(t, "", rows[2][4])
	assert.Equal(t, "5.25", rows[2][6])

	streakType, err := f.GetCellType(SheetName, "D2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, streakType)
}

package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"divstreak/internal/dividend"
)

// Headers is the column layout of tabular exports.
var Headers = []string{"code", "name", "market", "streak", "cagr_5y", "latest_year", "latest_dps", "years"}

// utf8BOM helps Excel recognize UTF-8
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Records converts rows to string records in Headers order.
func Records(rows []dividend.RankingRow) [][]string {
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = []string{
			r.Code,
			r.Name,
			r.Market,
			strconv.Itoa(r.Streak),
			formatCAGR(r.CAGR),
			strconv.Itoa(r.LatestYear),
			formatDPS(r.LatestDPS),
			strconv.Itoa(r.Years),
		}
	}
	return records
}

// WriteCSV writes rows with a header line, prefixed by a UTF-8 BOM.
func WriteCSV(w io.Writer, rows []dividend.RankingRow) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(Headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range Records(rows) {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// SaveCSV writes rows to the file at path, creating parent directories.
func SaveCSV(path string, rows []dividend.RankingRow) error {
	return saveFile(path, func(w io.Writer) error {
		return WriteCSV(w, rows)
	})
}

func saveFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Package source loads dividend history tables for the ranking engine.
//
// A Source turns some external input (CSV or XLSX files, a SQLite or
// PostgreSQL query) into a dividend.Table. Values are passed through
// untyped; coercion and validation happen in package dividend.
//
//	src, err := source.Open(cfg.Source, logger)
//	if err != nil {
//	    return err
//	}
//	table, err := src.Load(ctx)
package source

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"divstreak/internal/config"
	"divstreak/internal/dividend"
)

// Source produces a raw dividend table.
type Source interface {
	Load(ctx context.Context) (dividend.Table, error)
	// Name identifies the source in logs and metrics.
	Name() string
}

// Open builds the Source described by cfg. Several file paths yield a
// MultiSource; an empty driver picks the format from each file extension.
func Open(cfg config.SourceConfig, logger *slog.Logger) (Source, error) {
	if logger == nil {
		logger = slog.Default()
	}

	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case config.DriverSQLite, config.DriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("source driver %s requires a dsn", driver)
		}
		return NewSQLSource(driver, cfg.DSN, cfg.Query, logger), nil
	case "", config.DriverCSV, config.DriverXLSX:
	default:
		return nil, fmt.Errorf("unsupported source driver: %s", cfg.Driver)
	}

	if len(cfg.Paths) == 0 {
		return nil, fmt.Errorf("no source paths configured")
	}

	paths, err := expandPaths(cfg.Paths)
	if err != nil {
		return nil, err
	}

	parts := make([]Source, 0, len(paths))
	for _, path := range paths {
		src, err := openFile(driver, path, cfg.Sheet, logger)
		if err != nil {
			return nil, err
		}
		parts = append(parts, src)
	}

	if len(parts) == 1 {
		return parts[0], nil
	}
	return NewMultiSource(logger, parts...), nil
}

func openFile(driver, path, sheet string, logger *slog.Logger) (Source, error) {
	if driver == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".csv", ".txt":
			driver = config.DriverCSV
		case ".xlsx", ".xlsm":
			driver = config.DriverXLSX
		default:
			return nil, fmt.Errorf("cannot infer source format of %s", path)
		}
	}

	if driver == config.DriverXLSX {
		return NewXLSXSource(path, sheet, logger), nil
	}
	return NewCSVSource(path, logger), nil
}

const utf8BOM = "\ufeff"

// tableFromRows builds a table from a header row and data rows. Header
// names are trimmed; blank header cells are skipped. Cells missing from
// short rows are nil.
func tableFromRows(header []string, rows [][]string) dividend.Table {
	columns := make([]string, 0, len(header))
	positions := make([]int, 0, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, utf8BOM))
		if name == "" {
			continue
		}
		columns = append(columns, name)
		positions = append(positions, i)
	}

	records := make([]dividend.RawRecord, 0, len(rows))
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		rec := make(dividend.RawRecord, len(columns))
		for j, col := range columns {
			if pos := positions[j]; pos < len(row) {
				rec[col] = row[pos]
			} else {
				rec[col] = nil
			}
		}
		records = append(records, rec)
	}

	return dividend.Table{Columns: columns, Rows: records}
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

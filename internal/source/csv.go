package source

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"divstreak/internal/dividend"
)

// CSVSource reads a comma separated file whose first row is the header.
type CSVSource struct {
	path   string
	logger *slog.Logger
}

// NewCSVSource creates a source for the CSV file at path
func NewCSVSource(path string, logger *slog.Logger) *CSVSource {
	return &CSVSource{
		path:   path,
		logger: logger.With(slog.String("component", "csv_source")),
	}
}

// Name implements Source
func (s *CSVSource) Name() string { return "csv:" + s.path }

// Load implements Source
func (s *CSVSource) Load(ctx context.Context) (dividend.Table, error) {
	if err := ctx.Err(); err != nil {
		return dividend.Table{}, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return dividend.Table{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	table, err := ReadCSV(f)
	if err != nil {
		return dividend.Table{}, fmt.Errorf("read csv %s: %w", s.path, err)
	}

	s.logger.DebugContext(ctx, "csv loaded",
		slog.String("path", s.path),
		slog.Int("rows", len(table.Rows)),
		slog.Any("columns", table.Columns))
	return table, nil
}

// ReadCSV parses CSV data with a header row. A leading UTF-8 byte order
// mark is ignored and rows may have differing field counts.
func ReadCSV(r io.Reader) (dividend.Table, error) {
	br := bufio.NewReader(r)
	if lead, err := br.Peek(len(utf8BOM)); err == nil && string(lead) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return dividend.Table{}, nil
	}
	if err != nil {
		return dividend.Table{}, fmt.Errorf("header: %w", err)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return dividend.Table{}, err
	}
	return tableFromRows(header, rows), nil
}

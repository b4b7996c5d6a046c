package source

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"divstreak/internal/dividend"
)

// XLSXSource reads one sheet of an Excel workbook. The first row of the
// sheet is the header.
type XLSXSource struct {
	path   string
	sheet  string
	logger *slog.Logger
}

// NewXLSXSource creates a source for the workbook at path. An empty sheet
// selects the first sheet.
func NewXLSXSource(path, sheet string, logger *slog.Logger) *XLSXSource {
	return &XLSXSource{
		path:   path,
		sheet:  sheet,
		logger: logger.With(slog.String("component", "xlsx_source")),
	}
}

// Name implements Source
func (s *XLSXSource) Name() string { return "xlsx:" + s.path }

// Load implements Source
func (s *XLSXSource) Load(ctx context.Context) (dividend.Table, error) {
	if err := ctx.Err(); err != nil {
		return dividend.Table{}, err
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return dividend.Table{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := s.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return dividend.Table{}, fmt.Errorf("workbook %s has no sheets", s.path)
		}
		sheet = sheets[0]
	}

	// Raw values, so number formats cannot round or decorate DPS cells.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return dividend.Table{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return dividend.Table{}, nil
	}

	table := tableFromRows(rows[0], rows[1:])
	s.logger.DebugContext(ctx, "workbook loaded",
		slog.String("path", s.path),
		slog.String("sheet", sheet),
		slog.Int("rows", len(table.Rows)))
	return table, nil
}

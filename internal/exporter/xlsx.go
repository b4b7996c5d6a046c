package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"divstreak/internal/dividend"
)

// SheetName is the worksheet holding exported rows.
const SheetName = "Ranking"

// WriteXLSX writes rows as a workbook with a single sheet. Numbers are
// stored as numeric cells; a missing CAGR leaves its cell empty.
func WriteXLSX(w io.Writer, rows []dividend.RankingRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(Headers), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return fmt.Errorf("failed to style headers: %w", err)
	}

	for i, r := range rows {
		var cagr any
		if r.HasCAGR() {
			cagr = *r.CAGR
		}
		values := []any{r.Code, r.Name, r.Market, r.Streak, cagr, r.LatestYear, r.LatestDPS, r.Years}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveXLSX writes rows as a workbook at path.
func SaveXLSX(path string, rows []dividend.RankingRow) error {
	return saveFile(path, func(w io.Writer) error {
		return WriteXLSX(w, rows)
	})
}

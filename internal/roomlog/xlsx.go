package roomlog

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/verte-zerg/roomstats/internal/model"
	"github.com/verte-zerg/roomstats/internal/stats"
)

// SummarySheet is the worksheet name used for XLSX summaries.
const SummarySheet = "Summary"

// WriteSummaryXLSX writes the summary as a single-sheet workbook. Real-time
// values are stored as numbers; practice-segment times keep their "S.FF" text.
func WriteSummaryXLSX(w io.Writer, rows []model.SummaryRow) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close workbook: %w", cerr)
		}
	}()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(stats.SummaryHeader))
	for i, h := range stats.SummaryHeader {
		header[i] = h
	}
	if err := setRow(f, 1, header); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(SummarySheet, 1, 1, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range rows {
		if err := setRow(f, i+2, xlsxCells(row)); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SummarySheet, "C", "C", 28); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, rowNum int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SummarySheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}

func xlsxCells(row model.SummaryRow) []interface{} {
	cells := []interface{}{row.RowIndex, row.RoomID, row.RoomName, row.N}
	for _, v := range []*float64{row.Best, row.Average, row.StdDev} {
		switch {
		case v == nil:
			cells = append(cells, nil)
		case row.Mode == model.ModeRealTime:
			cells = append(cells, *v)
		default:
			cells = append(cells, row.Mode.Format(v))
		}
	}
	return cells
}

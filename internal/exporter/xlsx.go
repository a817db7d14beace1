package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"sheetrows/pkg/contracts/domain"
)

// DefaultSheetName names the single worksheet of an export.
const DefaultSheetName = "Rows"

// XLSXWriter writes rows as a one-sheet workbook. The position column is
// numeric; every other cell is text.
type XLSXWriter struct {
	SheetName string
}

// NewXLSXWriter creates a workbook writer.
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{SheetName: DefaultSheetName}
}

// Write writes the workbook to w.
func (x *XLSXWriter) Write(w io.Writer, header []string, rows []domain.Row) error {
	name := x.SheetName
	if name == "" {
		name = DefaultSheetName
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", name); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	cols := Columns(header)
	headerRow := make([]interface{}, len(cols))
	for i, c := range cols {
		headerRow[i] = c
	}
	if err := f.SetSheetRow(name, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, row := range rows {
		rec := record(row, header)
		cells := make([]interface{}, len(rec))
		cells[0] = row.Position
		for j := 1; j < len(rec); j++ {
			cells[j] = rec[j]
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &cells); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if err := f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Package xlsx writes the transaction log as an Excel workbook.
package xlsx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"flazz/internal/export"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet the log is written to.
const SheetName = "Sheet1"

// Exporter writes one workbook per export.
type Exporter struct{}

var _ export.Exporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{}
}

// Export writes the report to dest, adding ".xlsx" when dest has no extension.
// Amount and Remaining Balance are stored as numbers.
func (e *Exporter) Export(ctx context.Context, dest string, r export.Report) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := export.WithExtension(dest, ".xlsx")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, len(export.Header))
	for i, h := range export.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	for i, row := range export.Rows(r) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", fmt.Errorf("cell name for row %d: %w", i+2, err)
		}
		values := []any{
			row.Category,
			row.Amount.InexactFloat64(),
			row.Timestamp,
			row.RemainingBalance.InexactFloat64(),
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return "", fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}

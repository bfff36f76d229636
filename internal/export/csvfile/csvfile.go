// Package csvfile writes the transaction log as comma separated values.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"flazz/internal/export"
)

type Exporter struct{}

var _ export.Exporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{}
}

func (e *Exporter) Export(ctx context.Context, dest string, r export.Report) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := export.WithExtension(dest, ".csv")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(export.Header); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, row := range export.Rows(r) {
		if err := w.Write(row.Strings()); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close csv file: %w", err)
	}
	return path, nil
}

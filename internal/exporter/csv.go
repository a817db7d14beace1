package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"sheetrows/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes rows as CSV.
type CSVWriter struct {
	// BOMPrefix adds a UTF-8 BOM so Excel detects the encoding of the
	// non-ASCII headers.
	BOMPrefix bool
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(bom bool) *CSVWriter {
	return &CSVWriter{BOMPrefix: bom}
}

// Write writes the header line and one record per row to w.
func (c *CSVWriter) Write(w io.Writer, header []string, rows []domain.Row) error {
	if c.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(Columns(header)); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, row := range rows {
		if err := writer.Write(record(row, header)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// Writer is implemented by every output format.
type Writer interface {
	Write(w io.Writer, header []string, rows []domain.Row) error
}

// WriteFile writes rows to path with wr, creating parent directories.
func WriteFile(path string, wr Writer, header []string, rows []domain.Row) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	return wr.Write(file, header, rows)
}

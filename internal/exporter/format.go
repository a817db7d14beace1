package exporter

import (
	"strconv"

	"sheetrows/pkg/contracts/domain"
)

// Columns returns the export column order: the row position first, then the
// sheet header. A header cell that collides with the position key is dropped.
func Columns(header []string) []string {
	cols := make([]string, 0, len(header)+1)
	cols = append(cols, domain.PositionKey)
	for _, label := range header {
		if label == domain.PositionKey {
			continue
		}
		cols = append(cols, label)
	}
	return cols
}

// record lays out one row in Columns(header) order.
func record(row domain.Row, header []string) []string {
	cols := Columns(header)
	rec := make([]string, len(cols))
	rec[0] = strconv.Itoa(row.Position)
	for i, label := range cols[1:] {
		rec[i+1] = row.Value(label)
	}
	return rec
}

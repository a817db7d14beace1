package dataprocessing

import (
	"strings"

	"sheetrows/pkg/contracts/domain"
)

// lineSeparator splits the document before tokenizing. A quoted field that
// contains a newline is therefore split across two lines.
const lineSeparator = "\n"

// byteOrderMark prefixes some UTF-8 exports and would otherwise stick to the
// first header label.
const byteOrderMark = "\ufeff"

// ParseTable parses a CSV export into a Table.
//
// A leading byte order mark is dropped, then the document is trimmed and split on bare "\n". The first line becomes the
// header and every following line a Row whose Position is its 1-based line
// number. Values are paired with header labels by index: missing values become
// "", surplus values are dropped and a repeated label keeps the later value.
// An empty document yields an empty Table. ParseTable never fails.
func ParseTable(doc string) domain.Table {
	doc = strings.TrimSpace(strings.TrimPrefix(doc, byteOrderMark))
	if doc == "" {
		return domain.Table{}
	}

	lines := strings.Split(doc, lineSeparator)
	records := make([][]string, len(lines))
	for i, line := range lines {
		records[i] = SplitLine(line)
	}

	return TableFromRecords(records)
}

// TableFromRecords assembles a Table from already tokenized lines. The first
// record is the header; record i becomes a Row at Position i+1.
func TableFromRecords(records [][]string) domain.Table {
	if len(records) == 0 {
		return domain.Table{}
	}

	header := records[0]
	rows := make([]domain.Row, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		rows = append(rows, zipRow(header, records[i], i+1))
	}

	return domain.Table{Header: header, Rows: rows}
}

func zipRow(header, values []string, position int) domain.Row {
	row := domain.NewRow(position)
	for j, label := range header {
		value := ""
		if j < len(values) {
			value = values[j]
		}
		row.Fields[label] = value
	}
	return row
}

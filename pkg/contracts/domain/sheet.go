// Package domain contains the core domain models shared by every layer of sheetrows.
// These types serve as the single source of truth for parsed spreadsheet data.
package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// PositionKey is the JSON attribute carrying a row's source line number.
const PositionKey = "_rowIndex"

// Table is a parsed spreadsheet export: one header and its rows in document order.
type Table struct {
	Header []string `json:"header"`
	Rows   []Row    `json:"rows"`
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// IsEmpty reports whether the table has neither a header nor rows.
func (t Table) IsEmpty() bool {
	return len(t.Header) == 0 && len(t.Rows) == 0
}

// Row is one data line keyed by header label.
//
// Position is the 1-based line number in the source document, where the
// header occupies line 1 and the first data row line 2. It addresses the row
// for later updates and is never changed after parsing.
type Row struct {
	Fields   map[string]string
	Position int
}

// NewRow builds a row at the given position with an empty field map.
func NewRow(position int) Row {
	return Row{Fields: make(map[string]string), Position: position}
}

// Get returns the value stored under label and whether the label exists.
func (r Row) Get(label string) (string, bool) {
	v, ok := r.Fields[label]
	return v, ok
}

// Value returns the value stored under label, or "" when absent.
func (r Row) Value(label string) string {
	return r.Fields[label]
}

// Values returns the row's values in the order of the given header.
func (r Row) Values(header []string) []string {
	out := make([]string, len(header))
	for i, label := range header {
		out[i] = r.Fields[label]
	}
	return out
}

// MarshalJSON writes the row as a flat label->value object plus the position
// under PositionKey. The position wins over a header literally named _rowIndex.
func (r Row) MarshalJSON() ([]byte, error) {
	flat := make(map[string]string, len(r.Fields)+1)
	for k, v := range r.Fields {
		flat[k] = v
	}
	flat[PositionKey] = strconv.Itoa(r.Position)
	return json.Marshal(flat)
}

// UnmarshalJSON reads the flat form produced by MarshalJSON. The position may
// be sent as a string or a number.
func (r *Row) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	fields := make(map[string]string, len(raw))
	position := 0
	for k, v := range raw {
		if k == PositionKey {
			p, err := decodePosition(v)
			if err != nil {
				return err
			}
			position = p
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return fmt.Errorf("field %q: %w", k, err)
		}
		fields[k] = s
	}

	r.Fields = fields
	r.Position = position
	return nil
}

func decodePosition(v json.RawMessage) (int, error) {
	var n int
	if err := json.Unmarshal(v, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return 0, fmt.Errorf("%s: expected string or number", PositionKey)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", PositionKey, err)
	}
	return n, nil
}

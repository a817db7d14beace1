package exporter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sheetrows/pkg/contracts/domain"
)

var (
	header = []string{"email", "主題", "note"}
	rows   = []domain.Row{
		{Position: 2, Fields: map[string]string{"email": "a@x.com", "主題": "Travel, food", "note": `say "hi"`}},
		{Position: 5, Fields: map[string]string{"email": "b@x.com", "主題": "Tech"}},
	}
)

func TestColumns(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   []string
	}{
		{"empty", nil, []string{"_rowIndex"}},
		{"ordered", []string{"b", "a"}, []string{"_rowIndex", "b", "a"}},
		{"collision", []string{"x", "_rowIndex", "y"}, []string{"_rowIndex", "x", "y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Columns(tt.header))
		})
	}
}

func TestCSVWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter(false).Write(&buf, header, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"_rowIndex", "email", "主題", "note"},
		{"2", "a@x.com", "Travel, food", `say "hi"`},
		{"5", "b@x.com", "Tech", ""},
	}, records)
}

func TestCSVWriter_BOM(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter(true).Write(&buf, header, nil))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), utf8BOM))
	assert.Equal(t, "_rowIndex,email,主題,note\n", string(buf.Bytes()[len(utf8BOM):]))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestCSVWriter_WriteError(t *testing.T) {
	err := NewCSVWriter(true).Write(failingWriter{}, header, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestXLSXWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXLSXWriter().Write(&buf, header, rows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{DefaultSheetName}, f.GetSheetList())

	got, err := f.GetRows(DefaultSheetName)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"_rowIndex", "email", "主題", "note"}, got[0])
	assert.Equal(t, []string{"2", "a@x.com", "Travel, food", `say "hi"`}, got[1])
	require.GreaterOrEqual(t, len(got[2]), 3)
	assert.Equal(t, []string{"5", "b@x.com", "Tech"}, got[2][:3])

	cellType, err := f.GetCellType(DefaultSheetName, "A2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, cellType)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		wr   Writer
	}{
		{"rows.csv", NewCSVWriter(false)},
		{"rows.xlsx", &XLSXWriter{SheetName: "Export"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "nested", tt.name)
			require.NoError(t, WriteFile(path, tt.wr, header, rows))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}
}

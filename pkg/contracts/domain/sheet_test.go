package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowMarshalJSON(t *testing.T) {
	row := Row{
		Fields:   map[string]string{"電郵": "a@b.com", "主題": "travel"},
		Position: 3,
	}

	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `{"電郵":"a@b.com","主題":"travel","_rowIndex":"3"}`, string(data))
}

func TestRowMarshalJSON_PositionWinsOverHeader(t *testing.T) {
	row := Row{
		Fields:   map[string]string{PositionKey: "custom", "name": "x"},
		Position: 7,
	}

	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"x","_rowIndex":"7"}`, string(data))
}

func TestRowUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Row
		wantErr bool
	}{
		{
			name:  "string position",
			input: `{"email":"a@b.com","_rowIndex":"4"}`,
			want:  Row{Fields: map[string]string{"email": "a@b.com"}, Position: 4},
		},
		{
			name:  "numeric position",
			input: `{"email":"a@b.com","_rowIndex":12}`,
			want:  Row{Fields: map[string]string{"email": "a@b.com"}, Position: 12},
		},
		{
			name:  "missing position",
			input: `{"email":"a@b.com"}`,
			want:  Row{Fields: map[string]string{"email": "a@b.com"}},
		},
		{
			name:    "bad position",
			input:   `{"_rowIndex":"two"}`,
			wantErr: true,
		},
		{
			name:    "non-string field",
			input:   `{"count":3}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Row
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRowAccessors(t *testing.T) {
	row := NewRow(2)
	row.Fields["a"] = "1"
	row.Fields["b"] = ""

	v, ok := row.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	_, ok = row.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, "", row.Value("missing"))
	assert.Equal(t, []string{"", "1", ""}, row.Values([]string{"b", "a", "c"}))
}

func TestTableLen(t *testing.T) {
	assert.True(t, Table{}.IsEmpty())
	assert.Equal(t, 0, Table{}.Len())

	table := Table{Header: []string{"h"}, Rows: []Row{NewRow(2), NewRow(3)}}
	assert.False(t, table.IsEmpty())
	assert.Equal(t, 2, table.Len())
}

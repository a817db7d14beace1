package sheets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetrows/internal/config"
	"sheetrows/internal/shared/testutil"
)

func apiConfig(endpoint string) config.SheetConfig {
	cfg := config.Default().Sheet
	cfg.Source = config.SourceAPI
	cfg.SpreadsheetID = testutil.SampleSpreadsheetID
	cfg.APIKey = "test-key"
	cfg.APIEndpoint = endpoint + "/"
	cfg.FetchTimeout = 5 * time.Second
	return cfg
}

func TestAPISource_Fetch(t *testing.T) {
	srv := testutil.NewSheetsAPIServer(t, testutil.SampleRecords)

	src, err := New(context.Background(), apiConfig(srv.URL), Options{Logger: discard()})
	require.NoError(t, err)
	require.IsType(t, &APISource{}, src)

	table, err := src.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, testutil.SampleHeader, table.Header)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, 2, table.Rows[0].Position)
	assert.Equal(t, "Travel, food", table.Rows[0].Value("主題"))
	assert.Equal(t, 4, table.Rows[2].Position)

	v, ok := table.Rows[2].Get("API Key")
	assert.True(t, ok, "omitted trailing cell is still keyed")
	assert.Equal(t, "", v)
}

func TestAPISource_MatchesExport(t *testing.T) {
	apiSrv := testutil.NewSheetsAPIServer(t, testutil.SampleRecords)
	exportSrv := testutil.NewExportServer(t, 200, testutil.SampleCSV)

	api, err := NewAPISource(context.Background(), apiConfig(apiSrv.URL), Options{Logger: discard()})
	require.NoError(t, err)
	export := NewExportSource(exportConfig(exportSrv.URL), Options{Logger: discard()})

	fromAPI, err := api.Fetch(context.Background())
	require.NoError(t, err)
	fromExport, err := export.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, fromExport, fromAPI)
}

func TestAPISource_NotFound(t *testing.T) {
	srv := testutil.NewSheetsAPIServer(t, testutil.SampleRecords)
	cfg := apiConfig(srv.URL)
	cfg.SpreadsheetID = "missing"

	src, err := NewAPISource(context.Background(), cfg, Options{Logger: discard()})
	require.NoError(t, err)

	_, err = src.Fetch(context.Background())
	require.Error(t, err)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 404, fe.StatusCode)
	assert.Equal(t, "Failed to fetch spreadsheet: 404 Not Found", err.Error())
}

func TestToRecords(t *testing.T) {
	got := toRecords([][]interface{}{
		{"  a ", 12, nil, 1.5, true},
		{},
	})
	assert.Equal(t, [][]string{{"a", "12", "", "1.5", "true"}, {}}, got)
}

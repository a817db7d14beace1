package app

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetrows/internal/config"
	"sheetrows/internal/shared/testutil"
)

func testConfig(exportURL string) *config.Config {
	cfg := config.Default()
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = 5 * time.Second
	cfg.Sheet.SpreadsheetID = testutil.SampleSpreadsheetID
	cfg.Sheet.ExportBaseURL = exportURL
	cfg.Sheet.FetchTimeout = 5 * time.Second
	cfg.Security.RateLimit.Enabled = false
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	a, err := New(context.Background(), cfg, logger)
	require.NoError(t, err)
	return a
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]interface{}
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
	}
	return rec, out
}

func TestApplication_ReadRows(t *testing.T) {
	sheet := testutil.NewExportServer(t, http.StatusOK, testutil.SampleCSV)
	a := newTestApp(t, testConfig(sheet.URL))

	rec, body := do(t, a.Router, http.MethodPost, "/api/rows", `{"action":"read","userEmail":"Alice@Example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(3), body["total"])
	assert.Len(t, body["data"], 2)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec, _ = do(t, a.Router, http.MethodPost, "/functions/v1/google-sheets", `{"action":"read","userEmail":"bob@example.com"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2), sheet.Hits.Load(), "every read fetches")
}

func TestApplication_ErrorEnvelopes(t *testing.T) {
	sheet := testutil.NewExportServer(t, http.StatusOK, testutil.SampleCSV)
	a := newTestApp(t, testConfig(sheet.URL))

	tests := []struct {
		name    string
		method  string
		path    string
		body    string
		status  int
		message string
	}{
		{"update rejected", http.MethodPost, "/api/rows", `{"action":"update","userEmail":"a@b.c","rowData":{}}`, 400, "Invalid action"},
		{"unknown action", http.MethodPost, "/api/rows", `{"action":"delete"}`, 400, "Invalid action"},
		{"unknown route", http.MethodGet, "/nope", "", 404, "Not found"},
		{"wrong method", http.MethodGet, "/api/rows", "", 405, "Method not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, a.Router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["error"])
		})
	}
	assert.Zero(t, sheet.Hits.Load(), "rejected requests never fetch")
}

func TestApplication_FetchFailure(t *testing.T) {
	sheet := testutil.NewExportServer(t, http.StatusNotFound, "gone")
	a := newTestApp(t, testConfig(sheet.URL))

	rec, body := do(t, a.Router, http.MethodPost, "/api/rows", `{"action":"read","userEmail":"a@b.c"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]interface{}{"success": false, "error": "Failed to fetch spreadsheet: 404 Not Found"}, body)
}

func TestApplication_Preflight(t *testing.T) {
	a := newTestApp(t, testConfig("http://127.0.0.1:1"))

	req := httptest.NewRequest(http.MethodOptions, "/api/rows", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "authorization, x-client-info, apikey, content-type", rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestApplication_HealthAndMetrics(t *testing.T) {
	sheet := testutil.NewExportServer(t, http.StatusOK, testutil.SampleCSV)
	a := newTestApp(t, testConfig(sheet.URL))

	rec, body := do(t, a.Router, http.MethodGet, "/api/health/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", body["status"])

	do(t, a.Router, http.MethodPost, "/api/rows", `{"action":"read","userEmail":"a@b.c"}`)

	rec, _ = do(t, a.Router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sheet_fetches_total")
	assert.Contains(t, rec.Body.String(), "http_requests_total")
	assert.Contains(t, rec.Body.String(), "system_goroutines")
}

func TestApplication_NotReadyWithoutSpreadsheet(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Sheet.SpreadsheetID = ""
	a := newTestApp(t, cfg)

	rec, body := do(t, a.Router, http.MethodGet, "/api/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not_ready", body["status"])
}

func TestApplication_RateLimit(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Security.RateLimit.Enabled = true
	cfg.Security.RateLimit.RPS = 0.001
	cfg.Security.RateLimit.Burst = 1
	a := newTestApp(t, cfg)

	rec, _ := do(t, a.Router, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, body := do(t, a.Router, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Rate limit exceeded", body["error"])
}

func TestApplication_ServeAndStop(t *testing.T) {
	sheet := testutil.NewExportServer(t, http.StatusOK, testutil.SampleCSV)
	a := newTestApp(t, testConfig(sheet.URL))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/api/health/live"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestNew_RejectsUnknownSource(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Sheet.Source = "ftp"
	logger, _ := testutil.NewTestLogger(t)

	_, err := New(context.Background(), cfg, logger)
	assert.ErrorContains(t, err, "unknown sheet source")
}

package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

// SampleSpreadsheetID is the spreadsheet ID the fixture servers answer for.
const SampleSpreadsheetID = "sheet-fixture-id"

// SampleHeader mirrors the columns of the production sheet.
var SampleHeader = []string{"電郵", "IG 帳戶", "主題", "關鍵字", "標題", "IG 連結", "Blotato ID", "API Key"}

// SampleCSV is a published export with quoting, a short row and mixed-case
// identities. Rows 2 and 4 belong to alice, row 3 to bob.
const SampleCSV = `電郵,IG 帳戶,主題,關鍵字,標題,IG 連結,Blotato ID,API Key
alice@example.com,alice_ig,"Travel, food",trip,Hello,https://ig.example/a,b-1,k1
Bob@Example.com,bob_ig,Tech,"go, ""csv""",Title,https://ig.example/b,b-2,k2
ALICE@example.com,alice2,Pets,cat,Meow,https://ig.example/c,b-3
`

// SampleRecords is SampleCSV as the Sheets API returns it: trailing empty
// cells are omitted.
var SampleRecords = [][]string{
	SampleHeader,
	{"alice@example.com", "alice_ig", "Travel, food", "trip", "Hello", "https://ig.example/a", "b-1", "k1"},
	{"Bob@Example.com", "bob_ig", "Tech", `go, "csv"`, "Title", "https://ig.example/b", "b-2", "k2"},
	{"ALICE@example.com", "alice2", "Pets", "cat", "Meow", "https://ig.example/c", "b-3"},
}

// ExportServer serves a CSV export at /{id}/export like the published sheet
// endpoint. Hits counts requests.
type ExportServer struct {
	*httptest.Server
	Hits      atomic.Int64
	LastQuery atomic.Value
}

// NewExportServer starts a server answering every export request with status
// and body. It is closed when the test ends.
func NewExportServer(t *testing.T, status int, body string) *ExportServer {
	t.Helper()

	es := &ExportServer{}
	es.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		es.Hits.Add(1)
		es.LastQuery.Store(r.URL.RawQuery)

		if r.URL.Path != "/"+SampleSpreadsheetID+"/export" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(es.Close)
	return es
}

// Query returns the raw query string of the last request.
func (es *ExportServer) Query() string {
	q, _ := es.LastQuery.Load().(string)
	return q
}

// NewSheetsAPIServer starts a fake Sheets API v4 answering values.get for
// SampleSpreadsheetID with records. Other spreadsheets get a 404.
func NewSheetsAPIServer(t *testing.T, records [][]string) *httptest.Server {
	t.Helper()

	prefix := "/v4/spreadsheets/" + SampleSpreadsheetID + "/values/"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !strings.HasPrefix(r.URL.Path, prefix) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Requested entity was not found.","status":"NOT_FOUND"}}`))
			return
		}

		values := make([][]any, len(records))
		for i, rec := range records {
			row := make([]any, len(rec))
			for j, v := range rec {
				row[j] = v
			}
			values[i] = row
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"range":          strings.TrimPrefix(r.URL.Path, prefix),
			"majorDimension": "ROWS",
			"values":         values,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

package sheets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"sheetrows/internal/config"
	"sheetrows/internal/dataprocessing"
	"sheetrows/pkg/contracts/domain"
)

// MaxExportBytes caps the size of a downloaded export.
const MaxExportBytes = 32 << 20

// ExportSource downloads the published CSV export of one sheet tab. No
// credentials are sent; the spreadsheet must be shared publicly.
type ExportSource struct {
	url    string
	client *http.Client
	obs    observed
}

// NewExportSource creates an export source for cfg.
func NewExportSource(cfg config.SheetConfig, opts Options) *ExportSource {
	opts = opts.withDefaults(cfg.FetchTimeout)
	return &ExportSource{
		url:    ExportURL(cfg.ExportBaseURL, cfg.SpreadsheetID, cfg.GID),
		client: opts.HTTPClient,
		obs: observed{
			name:    config.SourceExport,
			tracer:  opts.Tracer,
			metrics: opts.Metrics,
			logger:  opts.Logger.With(slog.String("component", "sheets.export")),
		},
	}
}

// ExportURL returns the CSV export address of one tab.
func ExportURL(baseURL, spreadsheetID, gid string) string {
	return fmt.Sprintf("%s/%s/export?format=csv&gid=%s",
		baseURL, url.PathEscape(spreadsheetID), url.QueryEscape(gid))
}

// Fetch downloads and parses the export.
func (s *ExportSource) Fetch(ctx context.Context) (domain.Table, error) {
	return s.obs.run(ctx, s.fetch)
}

func (s *ExportSource) fetch(ctx context.Context) (fetchResult, error) {
	s.obs.logger.InfoContext(ctx, "fetching spreadsheet", slog.String("url", s.url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return fetchResult{}, &FetchError{Err: err}
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := s.client.Do(req)
	if err != nil {
		return fetchResult{}, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return fetchResult{}, statusError(resp)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxExportBytes+1))
	if err != nil {
		return fetchResult{}, &FetchError{Err: fmt.Errorf("read body: %w", err)}
	}
	if len(body) > MaxExportBytes {
		return fetchResult{}, &FetchError{Err: fmt.Errorf("export exceeds %d bytes", MaxExportBytes)}
	}

	s.obs.logger.InfoContext(ctx, "spreadsheet downloaded", slog.Int("csv_length", len(body)))

	return fetchResult{
		table: dataprocessing.ParseTable(string(body)),
		bytes: int64(len(body)),
	}, nil
}

package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"sheetrows/internal/config"
	"sheetrows/internal/dataprocessing"
	"sheetrows/pkg/contracts/domain"
)

// APISource reads a range through the Sheets API v4 with an API key. Cells
// are read as formatted values so the result matches the CSV export.
type APISource struct {
	service       *gsheets.Service
	spreadsheetID string
	readRange     string
	timeout       time.Duration
	obs           observed
}

// NewAPISource creates an API-backed source for cfg.
func NewAPISource(ctx context.Context, cfg config.SheetConfig, opts Options) (*APISource, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("sheets api key is required")
	}
	opts = opts.withDefaults(cfg.FetchTimeout)

	clientOpts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.APIEndpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.APIEndpoint))
	}

	service, err := gsheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &APISource{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		readRange:     cfg.Range,
		timeout:       cfg.FetchTimeout,
		obs: observed{
			name:    config.SourceAPI,
			tracer:  opts.Tracer,
			metrics: opts.Metrics,
			logger:  opts.Logger.With(slog.String("component", "sheets.api")),
		},
	}, nil
}

// Fetch reads the configured range and assembles it into a Table.
func (s *APISource) Fetch(ctx context.Context) (domain.Table, error) {
	return s.obs.run(ctx, s.fetch)
}

func (s *APISource) fetch(ctx context.Context) (fetchResult, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.obs.logger.InfoContext(ctx, "reading spreadsheet range",
		slog.String("range", s.readRange))

	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return fetchResult{}, apiError(err)
	}

	return fetchResult{table: dataprocessing.TableFromRecords(toRecords(resp.Values))}, nil
}

// toRecords stringifies and trims API cells. The API omits trailing empty
// cells, which the table assembly fills with "".
func toRecords(values [][]interface{}) [][]string {
	records := make([][]string, len(values))
	for i, row := range values {
		rec := make([]string, len(row))
		for j, cell := range row {
			if cell == nil {
				continue
			}
			rec[j] = strings.TrimSpace(fmt.Sprint(cell))
		}
		records[i] = rec
	}
	return records
}

func apiError(err error) *FetchError {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code != 0 {
		return &FetchError{StatusCode: gerr.Code, Status: http.StatusText(gerr.Code), Err: err}
	}
	return &FetchError{Err: err}
}

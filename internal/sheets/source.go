package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"sheetrows/internal/config"
	"sheetrows/internal/infrastructure"
	"sheetrows/pkg/contracts/domain"
)

// Source fetches the full, unfiltered table of the configured spreadsheet.
// Every call fetches again; nothing is cached.
type Source interface {
	Fetch(ctx context.Context) (domain.Table, error)
}

// FetchError reports that the spreadsheet could not be retrieved, either
// because the upstream answered with a non-success status or because the
// request itself failed.
type FetchError struct {
	StatusCode int
	Status     string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("Failed to fetch spreadsheet: %d %s", e.StatusCode, e.Status)
	}
	return fmt.Sprintf("Failed to fetch spreadsheet: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func statusError(resp *http.Response) *FetchError {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return &FetchError{StatusCode: resp.StatusCode, Status: text}
}

// Options carries the collaborators shared by every source.
type Options struct {
	Logger     *slog.Logger
	Tracer     trace.Tracer
	Metrics    *infrastructure.Metrics
	HTTPClient *http.Client
}

func (o Options) withDefaults(timeout time.Duration) Options {
	if o.Logger == nil {
		o.Logger = infrastructure.GetLogger()
	}
	if o.Tracer == nil {
		o.Tracer = otel.Tracer(infrastructure.InstrumentationName)
	}
	if o.HTTPClient == nil {
		o.HTTPClient = NewHTTPClient(timeout)
	}
	return o
}

// NewHTTPClient returns a client with tracing on the outbound transport.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// New builds the source selected by cfg.Source.
func New(ctx context.Context, cfg config.SheetConfig, opts Options) (Source, error) {
	switch cfg.Source {
	case config.SourceExport, "":
		return NewExportSource(cfg, opts), nil
	case config.SourceAPI:
		return NewAPISource(ctx, cfg, opts)
	default:
		return nil, fmt.Errorf("unknown sheet source %q", cfg.Source)
	}
}

// observed runs one fetch inside a span and records its metrics.
type observed struct {
	name    string
	tracer  trace.Tracer
	metrics *infrastructure.Metrics
	logger  *slog.Logger
}

type fetchResult struct {
	table domain.Table
	bytes int64
}

func (o observed) run(ctx context.Context, fetch func(ctx context.Context) (fetchResult, error)) (domain.Table, error) {
	ctx, span := o.tracer.Start(ctx, "sheets.fetch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("sheets.source", o.name)),
	)
	defer span.End()

	start := time.Now()
	res, err := fetch(ctx)
	duration := time.Since(start)

	infrastructure.RecordFetch(ctx, o.metrics, o.name, duration, res.bytes, res.table.Len(), err)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		o.logger.ErrorContext(ctx, "spreadsheet fetch failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", duration))
		return domain.Table{}, err
	}

	span.SetAttributes(
		attribute.Int("sheets.rows", res.table.Len()),
		attribute.Int64("sheets.bytes", res.bytes),
	)
	o.logger.InfoContext(ctx, "spreadsheet parsed",
		slog.Int("rows", res.table.Len()),
		slog.Int("columns", len(res.table.Header)),
		slog.Duration("duration", duration))
	return res.table, nil
}

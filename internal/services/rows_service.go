package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"sheetrows/internal/dataprocessing"
	"sheetrows/internal/infrastructure"
	"sheetrows/internal/sheets"
	api "sheetrows/pkg/contracts/api/v1"
	"sheetrows/pkg/contracts/domain"
)

// ReadResult is the outcome of a read: the rows owned by the caller and the
// size of the sheet they were selected from.
type ReadResult struct {
	Header []string
	Rows   []domain.Row
	Total  int
}

// RowService answers row requests against a spreadsheet source.
type RowService struct {
	source  sheets.Source
	matcher dataprocessing.IdentityMatcher
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.Metrics
}

// RowServiceOption customises a RowService.
type RowServiceOption func(*RowService)

// WithMetrics records read outcomes on m.
func WithMetrics(m *infrastructure.Metrics) RowServiceOption {
	return func(s *RowService) { s.metrics = m }
}

// WithTracer overrides the global tracer.
func WithTracer(t trace.Tracer) RowServiceOption {
	return func(s *RowService) { s.tracer = t }
}

// NewRowService creates a row service reading from source and selecting rows
// with matcher.
func NewRowService(source sheets.Source, matcher dataprocessing.IdentityMatcher, logger *slog.Logger, opts ...RowServiceOption) *RowService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &RowService{
		source:  source,
		matcher: matcher,
		logger:  logger.With(slog.String("service", "rows")),
		tracer:  otel.Tracer(infrastructure.InstrumentationName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Read fetches the sheet and returns the rows whose identity matches email.
// Total is the number of rows before filtering.
func (s *RowService) Read(ctx context.Context, email string) (*ReadResult, error) {
	return s.read(ctx, "rows.read", func(rows []domain.Row) []domain.Row {
		return s.matcher.Filter(rows, email)
	}, infrastructure.EmailAttr(email))
}

// ReadAll fetches the sheet and returns every row unfiltered.
func (s *RowService) ReadAll(ctx context.Context) (*ReadResult, error) {
	return s.read(ctx, "rows.read_all", func(rows []domain.Row) []domain.Row {
		out := make([]domain.Row, len(rows))
		copy(out, rows)
		return out
	}, slog.Bool("unfiltered", true))
}

func (s *RowService) read(ctx context.Context, spanName string, pick func([]domain.Row) []domain.Row, scope slog.Attr) (*ReadResult, error) {
	if s.source == nil {
		return nil, ErrSourceUnavailable
	}

	ctx, span := s.tracer.Start(ctx, spanName)
	defer span.End()

	start := time.Now()
	table, err := s.source.Fetch(ctx)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		infrastructure.RecordRead(ctx, s.metrics, 0, err)
		return nil, err
	}

	rows := pick(table.Rows)
	span.SetAttributes(
		attribute.Int("rows.total", table.Len()),
		attribute.Int("rows.matched", len(rows)),
	)
	infrastructure.RecordRead(ctx, s.metrics, len(rows), nil)

	s.logger.InfoContext(ctx, "rows read",
		scope,
		slog.Int("matched", len(rows)),
		slog.Int("total", table.Len()),
		slog.Duration("duration", time.Since(start)))

	return &ReadResult{Header: table.Header, Rows: rows, Total: table.Len()}, nil
}

// Dispatch routes a request by action. Only read is served.
func (s *RowService) Dispatch(ctx context.Context, req api.RowsRequest) (*ReadResult, error) {
	switch req.Action {
	case api.ActionRead:
		return s.Read(ctx, req.UserEmail)
	default:
		s.logger.WarnContext(ctx, "unsupported action",
			slog.String("action", strings.TrimSpace(req.Action)))
		return nil, ErrUnsupportedAction
	}
}

package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"sheetrows/internal/dataprocessing"
	"sheetrows/internal/infrastructure"
	"sheetrows/internal/sheets"
	"sheetrows/internal/shared/testutil"
	api "sheetrows/pkg/contracts/api/v1"
	"sheetrows/pkg/contracts/domain"
)

func sampleTable() domain.Table {
	return dataprocessing.ParseTable(testutil.SampleCSV)
}

func newService(t *testing.T, src *MockSource) (*RowService, *testutil.BufferedSlogHandler) {
	t.Helper()
	logger, logs := testutil.NewTestLogger(t)
	svc := NewRowService(src, dataprocessing.NewIdentityMatcher(nil), logger,
		WithMetrics(infrastructure.NoopMetrics()))
	return svc, logs
}

func TestRowService_Read(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		positions []int
	}{
		{"exact case", "alice@example.com", []int{2, 4}},
		{"upper case caller", "ALICE@EXAMPLE.COM", []int{2, 4}},
		{"mixed case sheet", "bob@example.com", []int{3}},
		{"unknown caller", "carol@example.com", nil},
		{"empty email", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := new(MockSource)
			src.On("Fetch", mock.Anything).Return(sampleTable(), nil).Once()
			svc, _ := newService(t, src)

			res, err := svc.Read(context.Background(), tt.email)
			require.NoError(t, err)

			assert.Equal(t, 3, res.Total, "total counts every row")
			assert.Equal(t, testutil.SampleHeader, res.Header)
			require.NotNil(t, res.Rows)

			var got []int
			for _, r := range res.Rows {
				got = append(got, r.Position)
			}
			assert.Equal(t, tt.positions, got)
			src.AssertExpectations(t)
		})
	}
}

func TestRowService_ReadKeepsRowContents(t *testing.T) {
	src := new(MockSource)
	src.On("Fetch", mock.Anything).Return(sampleTable(), nil)
	svc, _ := newService(t, src)

	res, err := svc.Read(context.Background(), "bob@example.com")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Bob@Example.com", res.Rows[0].Value("電郵"))
	assert.Equal(t, `go, "csv"`, res.Rows[0].Value("關鍵字"))
}

func TestRowService_ReadAll(t *testing.T) {
	src := new(MockSource)
	src.On("Fetch", mock.Anything).Return(sampleTable(), nil).Once()
	svc, logs := newService(t, src)

	res, err := svc.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	require.Len(t, res.Rows, 3)
	assert.Equal(t, 2, res.Rows[0].Position)
	assert.Equal(t, 4, res.Rows[2].Position)
	testutil.AssertLogAttr(t, logs, "unfiltered", true)
	src.AssertExpectations(t)
}

func TestRowService_ReadLogsFingerprintOnly(t *testing.T) {
	src := new(MockSource)
	src.On("Fetch", mock.Anything).Return(sampleTable(), nil)
	svc, logs := newService(t, src)

	_, err := svc.Read(context.Background(), "alice@example.com")
	require.NoError(t, err)

	testutil.AssertLogContains(t, logs, slog.LevelInfo, "rows read")
	testutil.AssertLogAttr(t, logs, "matched", int64(2))
	testutil.AssertLogAttr(t, logs, "email_fp", infrastructure.Fingerprint("alice@example.com"))
	assert.False(t, logs.ContainsText("alice@example.com"), "raw address must not be logged")
}

func TestRowService_ReadFetchError(t *testing.T) {
	fetchErr := &sheets.FetchError{StatusCode: 404, Status: "Not Found"}
	src := new(MockSource)
	src.On("Fetch", mock.Anything).Return(domain.Table{}, fetchErr)
	svc, _ := newService(t, src)

	res, err := svc.Read(context.Background(), "alice@example.com")
	assert.Nil(t, res)
	assert.Same(t, fetchErr, err)
}

func TestRowService_ReadFetchErrorMarksSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	fetchErr := &sheets.FetchError{StatusCode: 500, Status: "Internal Server Error"}
	src := new(MockSource)
	src.On("Fetch", mock.Anything).Return(domain.Table{}, fetchErr)

	logger, _ := testutil.NewTestLogger(t)
	svc := NewRowService(src, dataprocessing.NewIdentityMatcher(nil), logger,
		WithTracer(provider.Tracer("test")))

	_, err := svc.Read(context.Background(), "alice@example.com")
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "rows.read", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, fetchErr.Error(), spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestRowService_ReadEmptySheet(t *testing.T) {
	src := new(MockSource)
	src.On("Fetch", mock.Anything).Return(domain.Table{}, nil)
	svc, _ := newService(t, src)

	res, err := svc.Read(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Zero(t, res.Total)
	assert.Empty(t, res.Rows)
	assert.NotNil(t, res.Rows)
}

func TestRowService_ReadWithoutSource(t *testing.T) {
	svc := NewRowService(nil, dataprocessing.NewIdentityMatcher(nil), nil)
	_, err := svc.Read(context.Background(), "a@b.c")
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestRowService_ReadPassesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "marker")

	src := new(MockSource)
	src.On("Fetch", mock.MatchedBy(func(c context.Context) bool {
		return c.Value(key{}) == "marker"
	})).Return(domain.Table{}, nil)
	svc, _ := newService(t, src)

	_, err := svc.Read(ctx, "a@b.c")
	require.NoError(t, err)
	src.AssertExpectations(t)
}

func TestRowService_Dispatch(t *testing.T) {
	t.Run("read", func(t *testing.T) {
		src := new(MockSource)
		src.On("Fetch", mock.Anything).Return(sampleTable(), nil)
		svc, _ := newService(t, src)

		res, err := svc.Dispatch(context.Background(), api.RowsRequest{Action: "read", UserEmail: "bob@example.com"})
		require.NoError(t, err)
		assert.Len(t, res.Rows, 1)
	})

	for _, action := range []string{"update", "delete", "READ", ""} {
		t.Run("rejects "+action, func(t *testing.T) {
			src := new(MockSource)
			svc, logs := newService(t, src)

			_, err := svc.Dispatch(context.Background(), api.RowsRequest{
				Action:    action,
				UserEmail: "alice@example.com",
				RowData:   map[string]interface{}{"主題": "x"},
			})
			assert.True(t, errors.Is(err, ErrUnsupportedAction))
			src.AssertNotCalled(t, "Fetch", mock.Anything)
			testutil.AssertLogContains(t, logs, slog.LevelWarn, "unsupported action")
		})
	}
}

package errors

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/render"

	"sheetrows/internal/infrastructure"
)

// ErrorHandler turns errors into the failure envelope and logs them.
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError responds with err's status and message.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	apiErr := FromError(err)
	level := slog.LevelWarn
	if apiErr.StatusCode >= http.StatusInternalServerError {
		level = slog.LevelError
	}

	h.logger.Log(r.Context(), level, "request failed",
		slog.String("error", err.Error()),
		slog.String("code", apiErr.Code),
		slog.Int("status", apiErr.StatusCode),
		slog.String("trace_id", infrastructure.GetTraceID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	_ = render.Render(w, r, NewErrorResponse(apiErr))
}

// HandlePanic answers a recovered panic with a 500 envelope. The panic value
// is only exposed when stacks are enabled.
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	attrs := []any{
		slog.Any("panic", recovered),
		slog.String("trace_id", infrastructure.GetTraceID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	}
	if h.includeStack {
		attrs = append(attrs, slog.String("stack", string(debug.Stack())))
	}
	h.logger.ErrorContext(r.Context(), "panic recovered", attrs...)

	msg := "Internal server error"
	if h.includeStack {
		msg = fmt.Sprintf("panic: %v", recovered)
	}
	_ = render.Render(w, r, NewErrorResponse(New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", msg)))
}

// NotFound returns a standard 404 error
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	_ = render.Render(w, r, NewErrorResponse(NotFound()))
}

// MethodNotAllowed returns a standard 405 error
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	_ = render.Render(w, r, NewErrorResponse(MethodNotAllowed()))
}

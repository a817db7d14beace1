package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "sheetrows/internal/errors"
	"sheetrows/internal/middleware"
	"sheetrows/internal/services"
	api "sheetrows/pkg/contracts/api/v1"
)

// RowsPath is the endpoint path. LegacyRowsPath is kept for clients that
// still post to the function URL.
const (
	RowsPath       = "/api/rows"
	LegacyRowsPath = "/functions/v1/google-sheets"
)

// RowsHandler serves the rows endpoint.
type RowsHandler struct {
	service      RowsServiceInterface
	validator    *middleware.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewRowsHandler creates a new rows handler
func NewRowsHandler(service RowsServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *RowsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}
	return &RowsHandler{
		service:      service,
		validator:    middleware.NewValidator(),
		logger:       logger.With(slog.String("handler", "rows")),
		errorHandler: errorHandler,
	}
}

// Mount registers the endpoint and its legacy alias on r.
func (h *RowsHandler) Mount(r chi.Router) {
	r.Post(RowsPath, h.Handle)
	r.Post(LegacyRowsPath, h.Handle)
}

// Handle handles POST /api/rows
func (h *RowsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req api.RowsRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.MalformedRequest(err))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.DebugContext(r.Context(), "request rejected", slog.String("reason", err.Error()))
		h.errorHandler.HandleError(w, r, apierrors.InvalidAction())
		return
	}

	result, err := h.service.Dispatch(r.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedAction) {
			err = apierrors.InvalidAction()
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, api.NewRowsResponse(result.Rows, result.Total))
}

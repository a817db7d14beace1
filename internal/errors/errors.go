package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/render"
)

// APIError is an error with the HTTP status it should be answered with.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// New creates a new APIError with the given parameters
func New(statusCode int, code, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

// InvalidAction is returned for any action the endpoint does not serve.
func InvalidAction() *APIError {
	return New(http.StatusBadRequest, "INVALID_ACTION", "Invalid action")
}

// MalformedRequest reports a body that could not be decoded. The decoder's
// message is passed through and the status is 500.
func MalformedRequest(err error) *APIError {
	return &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       "MALFORMED_REQUEST",
		Message:    err.Error(),
		Err:        err,
	}
}

// NotFound is returned for unknown routes.
func NotFound() *APIError {
	return New(http.StatusNotFound, "NOT_FOUND", "Not found")
}

// MethodNotAllowed is returned when the route exists for other methods.
func MethodNotAllowed() *APIError {
	return New(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
}

// RateLimited is returned when a client exceeds its request budget.
func RateLimited() *APIError {
	return New(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded")
}

// Internal wraps err as a 500 carrying err's message.
func Internal(err error) *APIError {
	return &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    err.Error(),
		Err:        err,
	}
}

// FromError returns err as an APIError, treating anything unrecognised as
// internal.
func FromError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal(err)
}

// ErrorResponse is the failure envelope shared by every route.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`

	status int
}

// NewErrorResponse creates a new error response
func NewErrorResponse(err *APIError) *ErrorResponse {
	return &ErrorResponse{
		Success: false,
		Error:   err.Message,
		status:  err.StatusCode,
	}
}

// Render implements the render.Renderer interface
func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.status)
	return nil
}

// WriteError writes the envelope without a chi request context. Middleware
// that runs outside the router uses it.
func WriteError(w http.ResponseWriter, err *APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	_ = json.NewEncoder(w).Encode(NewErrorResponse(err))
}

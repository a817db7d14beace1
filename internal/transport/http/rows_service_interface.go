package http

import (
	"context"

	"sheetrows/internal/services"
	api "sheetrows/pkg/contracts/api/v1"
)

// RowsServiceInterface defines the interface for row requests
type RowsServiceInterface interface {
	Dispatch(ctx context.Context, req api.RowsRequest) (*services.ReadResult, error)
}

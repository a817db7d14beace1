// Package api contains the wire contract of the rows endpoint.
package api

import (
	"sheetrows/pkg/contracts/domain"
)

// Actions accepted by the rows endpoint. Only ActionRead is served; ActionUpdate
// is recognised on the wire and rejected.
const (
	ActionRead   = "read"
	ActionUpdate = "update"
)

// RowsRequest is the body of POST /api/rows.
type RowsRequest struct {
	Action    string `json:"action" validate:"required"`
	UserEmail string `json:"userEmail"`
	// RowData is accepted for update requests and otherwise ignored.
	RowData map[string]interface{} `json:"rowData,omitempty"`
}

// RowsResponse is the success envelope of a read.
type RowsResponse struct {
	Success bool         `json:"success"`
	Data    []domain.Row `json:"data"`
	Total   int          `json:"total"`
}

// NewRowsResponse wraps matched rows and the unfiltered row count.
func NewRowsResponse(rows []domain.Row, total int) RowsResponse {
	if rows == nil {
		rows = []domain.Row{}
	}
	return RowsResponse{Success: true, Data: rows, Total: total}
}

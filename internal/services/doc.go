// Package services holds the request-independent logic behind the HTTP
// handlers.
//
// RowService answers the rows endpoint: it fetches the configured spreadsheet
// on every call, keeps the rows whose identity column matches the caller's
// email and reports how many rows the sheet had before filtering. Only the
// read action is served; anything else yields ErrUnsupportedAction.
//
// HealthService backs the health, readiness, liveness and version routes.
// Readiness is the conjunction of the checks registered with Register.
package services

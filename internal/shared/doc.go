// Package shared provides common utilities and test helpers used across the
// sheetrows codebase.
//
// # Structure
//
// - testutil: slog capture handler, spreadsheet fixtures and fake export and
//   Sheets API servers
//
// # Usage Guidelines
//
// This package should only contain test utilities used by multiple packages
// and generic helpers with no domain-specific logic. Domain types belong in
// pkg/contracts/domain.
package shared

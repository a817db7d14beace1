// Package sheets retrieves the spreadsheet a read request is answered from.
//
// Two sources are available, selected by configuration:
//
//   - ExportSource downloads the published CSV export
//     (https://docs.google.com/spreadsheets/d/{id}/export?format=csv&gid={gid})
//     without credentials and parses it with dataprocessing.ParseTable
//   - APISource reads a range through the Sheets API v4 with an API key
//
// Both return the whole table. Failures are reported as *FetchError and are
// never retried.
package sheets

// Package exporter writes rows to files for offline use.
//
// CSVWriter and XLSXWriter lay out columns the same way: "_rowIndex" first,
// then the sheet header in order. Both satisfy Writer, and WriteFile handles
// directory creation for either.
package exporter

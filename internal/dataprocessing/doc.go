// Package dataprocessing turns a published spreadsheet export into rows a
// single user may see.
//
// # Pipeline
//
// The package is organized into three pure steps:
//
//  1. SplitLine: tokenizes one CSV line, honouring double-quote quoting
//  2. ParseTable: splits the document into lines and builds header-keyed rows
//     tagged with their source line number
//  3. IdentityMatcher: narrows rows to those whose identity column equals a
//     target email, ignoring case
//
// # Usage
//
//	table := dataprocessing.ParseTable(csvText)
//	matcher := dataprocessing.NewIdentityMatcher(cfg.Sheet.IdentityLabels)
//	mine := matcher.Filter(table.Rows, "someone@example.com")
//
// # Error Handling
//
// None of these functions fail. Empty input gives an empty Table and
// malformed quoting is split on a best-effort basis. Failures belong to the
// fetch and request-decoding boundaries, not to this package.
package dataprocessing

// Package http implements the HTTP handlers. Handlers decode and validate
// the request, delegate to a service and shape the response; they hold no
// business rules.
//
// Every failure is answered with the same envelope:
//
//	{"success": false, "error": "<message>"}
//
// A successful read answers
//
//	{"success": true, "data": [...rows], "total": <rows before filtering>}
//
// where each row carries its 1-based sheet line under "_rowIndex".
package http

// Package app wires configuration, logging, telemetry, the sheet source,
// services and the HTTP router into one Application, and owns its
// lifecycle.
//
// NewApplication reads configuration from SHEETROWS_* variables and an
// optional YAML file. New takes an explicit configuration and is what tests
// use. Run listens on the configured port until SIGINT or SIGTERM and then
// drains in-flight requests within the shutdown timeout.
//
// Initialization errors are returned; the package never exits the process.
package app

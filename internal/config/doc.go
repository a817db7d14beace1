// Package config provides centralized configuration management for sheetrows.
// It loads settings once at startup; nothing mutates them afterwards.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// The file is taken from SHEETROWS_CONFIG_FILE or the first of sheetrows.yaml,
// configs/sheetrows.yaml and ../configs/sheetrows.yaml that exists.
//
// # Environment Variables
//
// All environment variables follow the pattern SHEETROWS_<SECTION>_<KEY>:
//
//	SHEETROWS_SERVER_PORT=8080
//	SHEETROWS_SHEET_SPREADSHEET_ID=1AbC...
//	SHEETROWS_SHEET_GID=0
//	SHEETROWS_SHEET_IDENTITY_LABELS=電郵,email,Email
//	SHEETROWS_LOGGING_LEVEL=debug
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config

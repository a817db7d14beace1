package services

import "errors"

var (
	// ErrUnsupportedAction is returned for any action other than read.
	ErrUnsupportedAction = errors.New("unsupported action")

	// ErrSourceUnavailable is returned when no sheet source is configured.
	ErrSourceUnavailable = errors.New("sheet source not configured")
)

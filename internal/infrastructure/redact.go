package infrastructure

import (
	"encoding/hex"
	"log/slog"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns a short, stable pseudonym for an email address so logs
// can correlate requests without storing the address. Case is ignored, the
// same way rows are matched.
func Fingerprint(email string) string {
	if email == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(strings.ToLower(email)))
	return hex.EncodeToString(sum[:8])
}

// EmailAttr is the slog attribute used whenever an address would be logged.
func EmailAttr(email string) slog.Attr {
	return slog.String("email_fp", Fingerprint(email))
}

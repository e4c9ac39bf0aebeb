// Package validate holds the pure input predicates used as guards before
// submission. Invalid input yields false, never an error; the server side
// re-enforces the same limits independently.
package validate

import "regexp"

const (
	// PDFMimeType is the only accepted upload MIME type.
	PDFMimeType = "application/pdf"

	// MaxResumeSize is the upload size cap in bytes (5 MiB).
	MaxResumeSize = 5 * 1024 * 1024

	minPasswordLength = 8
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FileType reports whether the MIME type is one of the allowed types.
func FileType(mimeType string, allowed []string) bool {
	for _, a := range allowed {
		if mimeType == a {
			return true
		}
	}
	return false
}

// FileSize reports whether size is within the given byte limit.
func FileSize(size, max int64) bool {
	return size >= 0 && size <= max
}

// Email reports whether the address has a plausible user@host.tld shape.
func Email(email string) bool {
	return emailRe.MatchString(email)
}

// Password reports whether the password meets the minimum length rule.
func Password(password string) bool {
	return len(password) >= minPasswordLength
}

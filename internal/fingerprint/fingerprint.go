// Package fingerprint derives the duplicate-detection key for a survey
// submission.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Generate returns the hex-encoded SHA-256 digest over the normalized
// identity tuple. Each field is lower-cased and trimmed; absent optional
// fields contribute an empty string, so the digest is deterministic for a
// given identity regardless of input formatting. The email must already
// be filtered by consent: callers pass "" when contact consent was not
// given.
func Generate(building, apartment, email, status string) string {
	normalized := strings.Join([]string{
		normalize(building),
		normalize(apartment),
		normalize(email),
		normalize(status),
	}, "|")
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

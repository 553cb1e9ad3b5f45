package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// TokenFingerprint returns a short SHA-256 digest of a token, safe to put in logs.
func TokenFingerprint(token string) string {
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// OAuthStateBytes is the entropy of an OAuth state value. It encodes to 43 characters.
const OAuthStateBytes = 32

// NewOpaqueToken returns n random bytes as unpadded base64url, safe to place in
// a query string or a Redis key without escaping.
func NewOpaqueToken(n int) (string, error) {
	if n < 16 {
		return "", fmt.Errorf("opaque token needs at least 16 bytes, got %d", n)
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

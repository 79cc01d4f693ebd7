package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
)

// csrfTokenLen is the raw entropy of a CSRF token in bytes.
const csrfTokenLen = 32

// GenerateCSRFToken returns a new random token for the double-submit check.
// The token is stored in the session record and handed to the client in the
// X-CSRF-Token response header; it is never part of the session cookie.
func GenerateCSRFToken() (string, error) {
	buf := make([]byte, csrfTokenLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate csrf token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// ValidateCSRFToken compares the expected and received tokens in constant
// time. Empty tokens never match.
func ValidateCSRFToken(expected, received string) bool {
	if expected == "" || received == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(received)) == 1
}

package shared

import (
	"crypto/rand"
	"encoding/base64"
)

// PublicTokenBytes is the entropy of a public document token
const PublicTokenBytes = 24

// NewPublicToken returns an opaque URL-safe random token
func NewPublicToken() (string, error) {
	buf := make([]byte, PublicTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

package auth

import (
	"crypto/subtle"

	"voiceguard-server-go/internal/platform/errors"
)

// APIKeyVerifier checks the static shared-secret credential carried in the
// X-API-Key request header. The key is fixed at startup and read-only, so
// the verifier is safe for concurrent use.
type APIKeyVerifier struct {
	key []byte
}

// NewAPIKeyVerifier builds a verifier for the configured key.
func NewAPIKeyVerifier(key string) (*APIKeyVerifier, error) {
	if key == "" {
		return nil, errors.New(errors.KindConfig, "auth.new", "API key must not be empty")
	}
	return &APIKeyVerifier{key: []byte(key)}, nil
}

// Verify compares the presented credential in constant time.
func (v *APIKeyVerifier) Verify(presented string) error {
	if presented == "" {
		return errors.New(errors.KindAuth, "auth.verify", "missing API key")
	}
	if subtle.ConstantTimeCompare(v.key, []byte(presented)) != 1 {
		return errors.New(errors.KindAuth, "auth.verify", "invalid API key")
	}
	return nil
}

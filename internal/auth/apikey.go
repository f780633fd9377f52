package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidAPIKey = errors.New("invalid api key")

// HashAPIKey returns the hex SHA-256 digest stored in BOT_API_KEY_HASH.
func HashAPIKey(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidAPIKey
	}
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:]), nil
}

// APIKeyVerifier checks chat-bot keys against a configured SHA-256 digest.
// Keys are long random tokens, so a single fast digest keeps per-request cost flat.
type APIKeyVerifier struct {
	digest []byte
}

// NewAPIKeyVerifier returns nil when no digest is configured; a nil verifier rejects every key.
func NewAPIKeyVerifier(digest string) (*APIKeyVerifier, error) {
	digest = strings.TrimSpace(digest)
	if digest == "" {
		return nil, nil
	}
	raw, err := hex.DecodeString(digest)
	if err != nil || len(raw) != sha256.Size {
		return nil, fmt.Errorf("api key digest must be %d hex characters", 2*sha256.Size)
	}
	return &APIKeyVerifier{digest: raw}, nil
}

// Verify returns ErrInvalidAPIKey unless key matches the configured digest.
func (v *APIKeyVerifier) Verify(key string) error {
	if v == nil || key == "" {
		return ErrInvalidAPIKey
	}
	sum := sha256.Sum256([]byte(key))
	if subtle.ConstantTimeCompare(sum[:], v.digest) != 1 {
		return ErrInvalidAPIKey
	}
	return nil
}

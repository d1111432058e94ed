// Package auth holds the API key model guarding the admin surface.
package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// APIKeyInfo holds the identity data for a validated admin API key.
type APIKeyInfo struct {
	ID      string
	KeyHash string
	Name    string
}

// Repository provides lookup of API keys by their SHA-256 hash.
type Repository interface {
	FindByHash(ctx context.Context, hash string) (*APIKeyInfo, error)
}

// HashKey returns the hex-encoded SHA-256 digest of a raw key. Only the
// digest is ever stored.
func HashKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Verify compares a raw key against a stored hex digest in constant time.
func Verify(raw, storedHash string) bool {
	sum := sha256.Sum256([]byte(raw))
	stored, err := hex.DecodeString(storedHash)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(sum[:], stored) == 1
}

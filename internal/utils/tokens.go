package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// NewSecretToken returns a random hex-encoded token of nBytes entropy.
func NewSecretToken(nBytes int) (string, error) {
	if nBytes <= 0 {
		nBytes = 32 // 256 bits by default
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HashToken is the deterministic digest used to match a presented raw token
// against the stored value. Unsalted on purpose: the lookup is by digest.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// GenerateTemporaryToken produces a single-use token pair for email
// verification and password reset. The raw token goes into the outbound mail,
// only the digest is persisted.
func GenerateTemporaryToken(ttl time.Duration) (raw, hashed string, expiresAt time.Time, err error) {
	raw, err = NewSecretToken(32)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return raw, HashToken(raw), time.Now().Add(ttl), nil
}

package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// DefaultTokenBytes gives 256 bits of entropy per secret.
const DefaultTokenBytes = 32

// GenerateSecureToken returns a hex-encoded random string from crypto/rand.
// byteLength <= 0 uses the default.
func GenerateSecureToken(byteLength int) (string, error) {
	if byteLength <= 0 {
		byteLength = DefaultTokenBytes
	}
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HashToken hashes a token secret for storage at rest. SHA-256 is sufficient
// here because the input is a full-entropy random secret, not a password.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// CompareToken checks a presented secret against a stored hash in constant
// time.
func CompareToken(raw, hash string) bool {
	computed := HashToken(raw)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}

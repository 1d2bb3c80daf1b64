package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HMACSHA256 is a deterministic keyed digest: the same input always yields
// the same 64 character hex string.
type HMACSHA256 struct {
	secret []byte
}

// NewHMACSHA256 creates a hasher keyed with secret.
func NewHMACSHA256(secret string) *HMACSHA256 {
	return &HMACSHA256{secret: []byte(secret)}
}

// Hash returns the hex-encoded HMAC-SHA256 of plaintext.
func (s *HMACSHA256) Hash(plaintext string) ([]byte, error) {
	return s.digest(plaintext), nil
}

// Verify compares the digest of plaintext with hashed in constant time.
func (s *HMACSHA256) Verify(hashed, plaintext string) bool {
	if hashed == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(hashed), s.digest(plaintext)) == 1
}

func (s *HMACSHA256) digest(plaintext string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(plaintext))
	sum := mac.Sum(nil)

	out := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(out, sum)
	return out
}

package hash

import (
	"errors"
	"fmt"
	"strings"
)

// Algorithm names accepted by New.
const (
	AlgorithmHMACSHA256 = "hmac-sha256"
	AlgorithmBcrypt     = "bcrypt"
	AlgorithmArgon2id   = "argon2id"
)

// ErrUnknownAlgorithm is returned by New for an unsupported algorithm name.
var ErrUnknownAlgorithm = errors.New("hash: unknown algorithm")

// Hash derives a one-way digest from a secret and checks plaintext against it.
//
// There is no inverse operation. Verify must be used for comparisons because
// salted algorithms produce a different digest on every call.
type Hash interface {
	Hash(plaintext string) ([]byte, error)
	Verify(hashed, plaintext string) bool
}

// Options carries the secrets and work factors for every algorithm.
type Options struct {
	Secret      string
	BcryptCost  int
	Argon2Param Argon2Params
}

// New returns the Hash implementation registered under algorithm.
func New(algorithm string, opts Options) (Hash, error) {
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case "", AlgorithmHMACSHA256:
		return NewHMACSHA256(opts.Secret), nil
	case AlgorithmBcrypt:
		return NewBcrypt(opts.BcryptCost, opts.Secret), nil
	case AlgorithmArgon2id:
		return NewArgon2id(opts.Secret, opts.Argon2Param), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, algorithm)
	}
}

package otp

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/pquerna/otp"
)

// Generator produces a fresh one-time code on each call.
type Generator interface {
	Code() (string, error)
}

// Numeric draws decimal codes of a fixed width.
type Numeric struct {
	digits otp.Digits
	limit  *big.Int
	rand   io.Reader
}

// NewNumeric returns a Numeric generator. Only 6 and 8 digits are supported;
// any other width falls back to 6.
func NewNumeric(digits int) *Numeric {
	d := otp.Digits(digits)
	if d != otp.DigitsSix && d != otp.DigitsEight {
		d = otp.DigitsSix
	}

	return &Numeric{
		digits: d,
		limit:  new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d.Length())), nil),
		rand:   rand.Reader,
	}
}

// Length returns the number of digits in each code.
func (n *Numeric) Length() int {
	return n.digits.Length()
}

// Code returns a zero-padded code in [0, 10^digits).
func (n *Numeric) Code() (string, error) {
	v, err := rand.Int(n.rand, n.limit)
	if err != nil {
		return "", fmt.Errorf("otp: read random: %w", err)
	}

	//nolint:gosec // v < 10^8 fits in int32
	return n.digits.Format(int32(v.Int64())), nil
}

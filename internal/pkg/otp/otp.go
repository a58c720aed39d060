package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/theom/scoreboard-api/internal/domain"
)

const (
	alphabet = "0123456789"
	length   = 4
)

// Generate produces a 4-character decimal verification code. Each digit is
// drawn uniformly and independently from 0-9 via crypto/rand, so leading
// zeros are as likely as any other digit and are preserved.
// An unavailable secure-random source wraps domain.ErrFatal: authentication
// cannot proceed without it.
func Generate() (string, error) {
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", fmt.Errorf("secure random source unavailable: %w", domain.ErrFatal)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}

// Valid reports whether a submitted code has the exact shape of a generated
// one: four decimal digits, nothing else. Comparison against the stored code
// is plain string equality; no normalization happens here or later.
func Valid(code string) bool {
	if len(code) != length {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

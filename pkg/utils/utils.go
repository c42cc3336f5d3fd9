package utils

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"
)

// RandomInt returns a uniformly random integer in [0, max).
// Uses crypto/rand and falls back to math/rand only if crypto/rand fails.
func RandomInt(max int) int {
	if max <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return mrand.Intn(max)
	}
	return int(n.Int64())
}

// RandomDigits returns a random numeric string of the given length,
// zero-padded, suitable for one-time passcodes.
func RandomDigits(length int) string {
	const digits = "0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = digits[RandomInt(len(digits))]
	}
	return string(b)
}

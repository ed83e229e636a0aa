package service

import (
	"crypto/rand"
	"fmt"
	"time"
)

// Unambiguous alphabet: no 0/O, 1/I/L.
const codeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// NewConfirmationCode produces a guest-facing code like INN-20250601-K7MQ4D.
// The date component aids support lookups; the random suffix carries the
// uniqueness, backed by a unique index on the collection.
func NewConfirmationCode(checkIn time.Time) (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate confirmation code: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return fmt.Sprintf("INN-%s-%s", checkIn.UTC().Format("20060102"), buf), nil
}

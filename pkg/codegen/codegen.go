// Package codegen produces short human-readable identifiers such as PROD-AB12CD.
package codegen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	PrefixProduct = "PROD"
	PrefixUser    = "USR"

	defaultLength = 6
)

// Unambiguous uppercase alphabet (no 0/O, 1/I).
const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// New returns prefix-XXXXXX using a cryptographically random suffix.
func New(prefix string) (string, error) {
	return NewWithLength(prefix, defaultLength)
}

// NewWithLength is New with an explicit suffix length.
func NewWithLength(prefix string, length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", fmt.Errorf("prefix is required")
	}

	max := big.NewInt(int64(len(alphabet)))
	var b strings.Builder
	b.Grow(len(prefix) + 1 + length)
	b.WriteString(prefix)
	b.WriteByte('-')
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		b.WriteByte(alphabet[n.Int64()])
	}
	return b.String(), nil
}

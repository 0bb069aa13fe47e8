// Package codegen produces human-readable reservation codes.  Codes
// follow the pattern EVT-\d{5} with the numeric part drawn uniformly
// from [10000, 99999].  The keyspace is only 90 000 values, so callers
// must check generated codes for uniqueness against the store and
// regenerate on collision.
package codegen

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Prefix is the fixed prefix of every reservation code.
const Prefix = "EVT-"

const (
	codeMin  = 10000
	codeSpan = 90000
)

// NewCode returns a fresh reservation code.  The random number comes
// from crypto/rand; an error is only possible if the system's entropy
// source fails.
func NewCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", fmt.Errorf("generate reservation code: %w", err)
	}
	return fmt.Sprintf("%s%d", Prefix, codeMin+n.Int64()), nil
}

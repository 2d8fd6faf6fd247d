// Package id generates and checks the opaque identifiers carried in request
// metadata.
//
// Generated identifiers are random UUIDs encoded as unpadded lowercase
// base32, giving 26 characters that are safe in URLs, log lines and gRPC
// metadata.
package id

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// MaxLength bounds identifiers accepted from callers.
const MaxLength = 128

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID returns a random identifier.
func NewID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return strings.ToLower(encoding.EncodeToString(u[:])), nil
}

// Valid reports whether s can be echoed back as an identifier: non-empty,
// at most MaxLength bytes and printable ASCII without spaces.
func Valid(s string) bool {
	if s == "" || len(s) > MaxLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] <= ' ' || s[i] > '~' {
			return false
		}
	}
	return true
}

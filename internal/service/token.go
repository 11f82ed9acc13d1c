// Package service issues and checks the opaque seat tokens that bind a
// player identity to a (room, seat) pair for the room's lifetime.
package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
)

const tokenBytes = 32

// NewToken - generates an unguessable seat token. Issued once per seat when
// the seat is bound and never reissued within the room's lifetime.
func NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// VerifyToken - constant-time comparison of a presented token against the
// issued one. An unissued (empty) token never matches.
func VerifyToken(issued, presented string) bool {
	if issued == "" || presented == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(issued), []byte(presented)) == 1
}

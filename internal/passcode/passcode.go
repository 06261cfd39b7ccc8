// Package passcode implements the gate controlling playback access to
// protected posts. Secrets are stored as bcrypt hashes and compared through
// the hashing primitive, never as raw strings.
package passcode

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt work factor used for new passcodes.
const Cost = 12

// Hash hashes a passcode for storage. An empty or whitespace-only secret
// means the post is ungated and yields a nil hash.
func Hash(secret string) (*string, error) {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return nil, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(trimmed), Cost)
	if err != nil {
		return nil, err
	}
	h := string(hashed)
	return &h, nil
}

// Verify reports whether a provided secret grants access. A nil stored hash
// means the post is ungated and access is always granted.
func Verify(provided string, storedHash *string) bool {
	if storedHash == nil {
		return true
	}
	return bcrypt.CompareHashAndPassword([]byte(*storedHash), []byte(provided)) == nil
}

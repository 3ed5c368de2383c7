package internal

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

const (
	// MinCodeLength and MaxCodeLength bound the printable reset code size.
	MinCodeLength = 4
	MaxCodeLength = 32
)

// NewResetCode generates a human-enterable reset code of the given length:
// uppercase hex characters drawn from crypto/rand. A 6-character code carries
// 24 bits of entropy, which combined with single-use consumption and the
// confirm-attempt budget keeps online guessing infeasible within the TTL.
func NewResetCode(length int) (string, error) {
	if length < MinCodeLength || length > MaxCodeLength {
		return "", errors.New("invalid reset code length")
	}

	raw := make([]byte, (length+1)/2)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}

	code := strings.ToUpper(hex.EncodeToString(raw))
	return code[:length], nil
}

// NormalizeResetCode maps a user-submitted code to the canonical form used at
// issuance. Codes are issued uppercase; submissions are matched
// case-insensitively.
func NormalizeResetCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// HashResetCode returns the irreversible digest persisted in place of the
// plaintext code. SHA-256 is sufficient here: the code is high-entropy,
// short-lived, and single-use, so a slow password hash buys nothing.
func HashResetCode(code string) [32]byte {
	return sha256.Sum256([]byte(code))
}

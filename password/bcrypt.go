package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt hashes passwords with bcrypt at a fixed cost. The zero value is not
// usable; construct with [NewBcrypt].
type Bcrypt struct {
	cost int
}

// NewBcrypt validates the cost factor and returns a bcrypt hasher. Costs
// below 10 are rejected: they are too cheap for an online credential store.
func NewBcrypt(cost int) (*Bcrypt, error) {
	if cost < 10 || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [10, %d]", cost, bcrypt.MaxCost)
	}
	return &Bcrypt{cost: cost}, nil
}

// Hash produces a salted bcrypt digest of the plaintext.
func (b *Bcrypt) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		// bcrypt silently truncates beyond 72 bytes; reject instead.
		return "", errors.New("password longer than 72 bytes")
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext reproduces the digest. A mismatch is
// (false, nil); only a malformed digest yields an error.
func (b *Bcrypt) Verify(plaintext, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}

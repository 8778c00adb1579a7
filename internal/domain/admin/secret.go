// Package admin models the single shared administrator credential. There
// is deliberately one secret, one role and no per-user identity: the
// blast radius of this system is two kids' holiday messages, and the
// weak trust model is a documented choice, not an oversight.
package admin

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrWrongPassword = errors.New("wrong admin password")

// Secret holds the configured admin password as a bcrypt hash. The
// plaintext is dropped as soon as the hash is derived at startup, and
// comparison goes through bcrypt so it does not leak timing.
type Secret struct {
	hash []byte
}

// NewSecret derives a Secret from the configured plaintext password.
// PRE: plaintext is non-empty
// POST: Returns a Secret holding only the bcrypt hash
func NewSecret(plaintext string) (Secret, error) {
	if plaintext == "" {
		return Secret{}, errors.New("admin password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 12)
	if err != nil {
		return Secret{}, err
	}
	return Secret{hash: hash}, nil
}

// Check verifies a supplied password against the stored hash.
// POST: Returns nil on match, ErrWrongPassword otherwise
func (s Secret) Check(supplied string) error {
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(supplied)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

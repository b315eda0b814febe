// Package security provides password hashing for seeded and provisioned accounts.
package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword is returned when HashPassword is called with an empty password.
var ErrEmptyPassword = errors.New("security: password must not be empty")

// Hasher hashes and verifies passwords using bcrypt. Callers must not log or
// persist plaintext passwords.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost clamped to the valid
// range (4-31). Cost 12 is a reasonable default for interactive login.
func NewHasher(cost int) Hasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return Hasher{cost: cost}
}

// Cost reports the effective bcrypt cost after clamping.
func (h Hasher) Cost() int { return h.cost }

// HashPassword produces a bcrypt hash of password suitable for storage on the
// users table. Empty passwords are rejected.
func (h Hasher) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword checks password against the stored hash in constant time.
// Returns nil on match; bcrypt.ErrMismatchedHashAndPassword on mismatch.
func (h Hasher) VerifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

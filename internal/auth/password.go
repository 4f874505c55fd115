package auth

import (
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch is returned when a password does not match its hash.
var ErrPasswordMismatch = errors.New("password mismatch")

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}

// NewPlaceholderHash returns a hash of a throwaway password at cost. Comparing against it
// when no real hash exists makes unknown accounts cost the same as known ones, provided
// cost matches the cost real hashes are created with.
func NewPlaceholderHash(cost int) (string, error) {
	return HashPassword(uuid.NewString(), cost)
}

// BurnComparison compares plain against placeholder and discards the result.
func BurnComparison(placeholder, plain string) {
	_ = bcrypt.CompareHashAndPassword([]byte(placeholder), []byte(plain))
}

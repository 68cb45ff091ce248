package user

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Hasher turns passwords into verifiable hashes.
type Hasher interface {
	Hash(password string) ([]byte, error)
	Compare(hash []byte, password string) error
}

// ErrPasswordMismatch indicates a password that does not match the stored hash.
var ErrPasswordMismatch = errors.New("password does not match")

// BcryptHasher hashes passwords with bcrypt at a fixed cost.
type BcryptHasher struct {
	Cost int
}

// DefaultHasher returns a bcrypt hasher using bcrypt.DefaultCost.
func DefaultHasher() BcryptHasher {
	return BcryptHasher{Cost: bcrypt.DefaultCost}
}

// Hash implements Hasher.
func (h BcryptHasher) Hash(password string) ([]byte, error) {
	cost := h.Cost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return bcrypt.GenerateFromPassword([]byte(password), cost)
}

// Compare implements Hasher.
func (h BcryptHasher) Compare(hash []byte, password string) error {
	err := bcrypt.CompareHashAndPassword(hash, []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}

// VerifyPassword checks password against the user's stored hash.
func VerifyPassword(u User, password string, hasher Hasher) error {
	if hasher == nil {
		hasher = DefaultHasher()
	}
	if len(u.PasswordHash) == 0 {
		return ErrPasswordMismatch
	}
	return hasher.Compare(u.PasswordHash, password)
}

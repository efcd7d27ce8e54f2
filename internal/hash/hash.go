package hash

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var ErrHashing = errors.New("error hashing password")

// Cost matches the work factor used for existing stored hashes.
const Cost = 10

func HashPassword(password string) (string, error) {
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHashing, err)
	}

	return string(hashbytes), nil
}

// CheckPassword reports whether password matches hash. A mismatch is not
// an error; only a malformed hash is.
func CheckPassword(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

// Hasher adapts the package functions to the service interface.
type Hasher struct{}

func (Hasher) Hash(password string) (string, error) { return HashPassword(password) }

func (Hasher) Verify(password, hash string) (bool, error) { return CheckPassword(hash, password) }

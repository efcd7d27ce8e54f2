package domain

import (
	"errors"

	"github.com/Skotchmaster/card_collection/pkg/tokens"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrCredentialsInvalid = errors.New("invalid credentials")
	ErrTokenMissing       = errors.New("token missing")
	ErrTokenInvalid       = tokens.ErrInvalid
	ErrTokenExpired       = tokens.ErrExpired
	ErrTokenRevoked       = errors.New("token revoked")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("role not permitted")
	ErrPersistence        = errors.New("persistence failure")
)

// IsTokenRejection reports whether err means the presented token must be
// refused, as opposed to an internal failure.
func IsTokenRejection(err error) bool {
	return errors.Is(err, ErrTokenInvalid) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenRevoked) ||
		errors.Is(err, ErrTokenMissing)
}

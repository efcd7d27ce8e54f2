package tokens

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

var (
	ErrInvalid        = errors.New("token invalid")
	ErrExpired        = errors.New("token expired")
	ErrSecretRequired = errors.New("token secret is required")
	ErrSameSecrets    = errors.New("access and refresh secrets must differ")
)

// Service signs and verifies HS256 tokens. Access and refresh tokens use
// separate secrets so either can be rotated on its own.
type Service struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Now           func() time.Time
}

func New(accessSecret, refreshSecret []byte) (*Service, error) {
	if len(accessSecret) == 0 || len(refreshSecret) == 0 {
		return nil, ErrSecretRequired
	}
	if bytes.Equal(accessSecret, refreshSecret) {
		return nil, ErrSameSecrets
	}
	return &Service{
		AccessSecret:  accessSecret,
		RefreshSecret: refreshSecret,
		AccessTTL:     DefaultAccessTTL,
		RefreshTTL:    DefaultRefreshTTL,
		Now:           time.Now,
	}, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// IssueAccessToken returns a signed access token and its expiry.
func (s *Service) IssueAccessToken(userID uint) (string, time.Time, error) {
	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = DefaultAccessTTL
	}
	return s.sign(userID, KindAccess, ttl, s.AccessSecret)
}

// IssueRefreshToken returns a signed refresh token and its expiry.
func (s *Service) IssueRefreshToken(userID uint) (string, time.Time, error) {
	ttl := s.RefreshTTL
	if ttl <= 0 {
		ttl = DefaultRefreshTTL
	}
	return s.sign(userID, KindRefresh, ttl, s.RefreshSecret)
}

func (s *Service) sign(userID uint, kind string, ttl time.Duration, secret []byte) (string, time.Time, error) {
	issued := s.now()
	exp := issued.Add(ttl)
	claims := Claims{
		UserID: userID,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, exp, nil
}

// Verify checks the signature and expiry of tokenStr against secret.
// Failures wrap ErrExpired or ErrInvalid.
func (s *Service) Verify(tokenStr string, secret []byte) (*Claims, error) {
	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	tkn, err := parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !tkn.Valid || claims.UserID == 0 {
		return nil, ErrInvalid
	}
	return &claims, nil
}

func (s *Service) VerifyAccess(tokenStr string) (*Claims, error) {
	return s.verifyKind(tokenStr, s.AccessSecret, KindAccess)
}

func (s *Service) VerifyRefresh(tokenStr string) (*Claims, error) {
	return s.verifyKind(tokenStr, s.RefreshSecret, KindRefresh)
}

func (s *Service) verifyKind(tokenStr string, secret []byte, kind string) (*Claims, error) {
	claims, err := s.Verify(tokenStr, secret)
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, fmt.Errorf("%w: not a %s token", ErrInvalid, kind)
	}
	return claims, nil
}

// Decode reads the payload without checking signature or expiry.
// Never use the result to grant access.
func (s *Service) Decode(tokenStr string) (*Claims, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return &claims, nil
}

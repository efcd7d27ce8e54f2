package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Skotchmaster/card_collection/internal/domain"
	"github.com/Skotchmaster/card_collection/internal/metrics"
	"github.com/Skotchmaster/card_collection/internal/models"
	"github.com/Skotchmaster/card_collection/internal/mykafka"
	"github.com/Skotchmaster/card_collection/pkg/logging"
	"github.com/Skotchmaster/card_collection/pkg/tokens"
)

// Store is the slice of the credential store the auth flow needs.
type Store interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetRefreshToken(ctx context.Context, userID uint) (*string, error)
	SetRefreshToken(ctx context.Context, userID uint, token *string) (int64, error)
}

type PasswordVerifier interface {
	Verify(password, hash string) (bool, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, key string, event any) error
}

type AuthService struct {
	Repo    Store
	Tokens  *tokens.Service
	Hasher  PasswordVerifier
	Events  EventPublisher
	Metrics *metrics.Metrics

	// RotateRefresh replaces the stored refresh token on every exchange.
	RotateRefresh bool
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

// RefreshResult carries a new access token. RefreshToken is empty unless
// rotation is enabled.
type RefreshResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown username")
			s.Metrics.AuthOutcome("login", "invalid_credentials")
			return nil, domain.ErrCredentialsInvalid
		}
		l.Error("login_failed", "status", 500, "error", err)
		s.Metrics.AuthOutcome("login", "error")
		return nil, err
	}

	ok, err := s.Hasher.Verify(password, user.PasswordHash)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "stored hash unreadable", "error", err)
		s.Metrics.AuthOutcome("login", "error")
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		l.Warn("login_failed", "status", 401, "reason", "wrong password")
		s.Metrics.AuthOutcome("login", "invalid_credentials")
		return nil, domain.ErrCredentialsInvalid
	}

	accessToken, accessExp, err := s.Tokens.IssueAccessToken(user.ID)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		s.Metrics.AuthOutcome("login", "error")
		return nil, err
	}
	refreshToken, refreshExp, err := s.Tokens.IssueRefreshToken(user.ID)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		s.Metrics.AuthOutcome("login", "error")
		return nil, err
	}

	// overwriting the stored token revokes every earlier session
	if _, err := s.Repo.SetRefreshToken(ctx, user.ID, &refreshToken); err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot store refresh token", "error", err)
		s.Metrics.AuthOutcome("login", "error")
		return nil, err
	}

	s.publish(ctx, mykafka.EventUserLoggedIn, user.ID, user.Username)
	s.Metrics.AuthOutcome("login", "success")
	l.Info("login_successful", "user_id", user.ID)

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

// Refresh exchanges a refresh token for a new access token. The token
// must verify and also equal the one stored for its user.
func (s *AuthService) Refresh(ctx context.Context, presented string) (*RefreshResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := s.Tokens.VerifyRefresh(presented)
	if err != nil {
		l.Warn("refresh_rejected", "status", 401, "error", err)
		s.Metrics.AuthOutcome("refresh", outcomeFor(err))
		return nil, err
	}
	l = l.With("user_id", claims.UserID)

	stored, err := s.Repo.GetRefreshToken(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			l.Warn("refresh_rejected", "status", 401, "reason", "user no longer exists")
			s.Metrics.AuthOutcome("refresh", "revoked")
			return nil, fmt.Errorf("%w: %w", domain.ErrTokenRevoked, err)
		}
		l.Error("refresh_failed", "status", 500, "error", err)
		s.Metrics.AuthOutcome("refresh", "error")
		return nil, err
	}
	if stored == nil || subtle.ConstantTimeCompare([]byte(*stored), []byte(presented)) != 1 {
		l.Warn("refresh_rejected", "status", 401, "reason", "token superseded or revoked")
		s.Metrics.AuthOutcome("refresh", "revoked")
		return nil, domain.ErrTokenRevoked
	}

	accessToken, accessExp, err := s.Tokens.IssueAccessToken(claims.UserID)
	if err != nil {
		l.Error("refresh_failed", "status", 500, "error", err)
		s.Metrics.AuthOutcome("refresh", "error")
		return nil, err
	}
	res := &RefreshResult{AccessToken: accessToken, AccessExp: accessExp}

	if s.RotateRefresh {
		refreshToken, refreshExp, err := s.Tokens.IssueRefreshToken(claims.UserID)
		if err != nil {
			l.Error("refresh_failed", "status", 500, "error", err)
			s.Metrics.AuthOutcome("refresh", "error")
			return nil, err
		}
		n, err := s.Repo.SetRefreshToken(ctx, claims.UserID, &refreshToken)
		if err != nil {
			l.Error("refresh_failed", "status", 500, "reason", "cannot store refresh token", "error", err)
			s.Metrics.AuthOutcome("refresh", "error")
			return nil, err
		}
		if n == 0 {
			s.Metrics.AuthOutcome("refresh", "revoked")
			return nil, fmt.Errorf("%w: %w", domain.ErrTokenRevoked, domain.ErrUserNotFound)
		}
		res.RefreshToken = refreshToken
		res.RefreshExp = refreshExp
	}

	s.publish(ctx, mykafka.EventTokenRefreshed, claims.UserID, "")
	s.Metrics.AuthOutcome("refresh", "success")
	l.Info("refresh_successful", "rotated", s.RotateRefresh)
	return res, nil
}

// LogOut clears the caller's stored refresh token. The presented token is
// only decoded to flag a claim naming somebody else; it never decides
// whose session is cleared.
func (s *AuthService) LogOut(ctx context.Context, caller domain.Identity, presented string) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout", "user_id", caller.UserID)

	if presented != "" {
		claims, err := s.Tokens.Decode(presented)
		switch {
		case err != nil:
			l.Debug("logout_token_undecodable", "error", err)
		case claims.UserID != caller.UserID:
			l.Warn("logout_token_mismatch", "token_user_id", claims.UserID)
		}
	}

	if _, err := s.Repo.SetRefreshToken(ctx, caller.UserID, nil); err != nil {
		l.Error("logout_failed", "status", 500, "reason", "cannot revoke refresh token", "error", err)
		s.Metrics.AuthOutcome("logout", "error")
		return err
	}

	s.publish(ctx, mykafka.EventUserLoggedOut, caller.UserID, "")
	s.Metrics.AuthOutcome("logout", "success")
	l.Info("successful_logout")
	return nil
}

func (s *AuthService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			logging.FromContext(ctx).Error("profile_failed", "svc", "auth.profile", "user_id", userID, "error", err)
		}
		return nil, err
	}
	return user, nil
}

// publish never fails the request; a lost audit event is only logged.
func (s *AuthService) publish(ctx context.Context, eventType string, userID uint, username string) {
	if s.Events == nil {
		return
	}
	event := mykafka.UserEvent{
		Type:       eventType,
		UserID:     userID,
		Username:   username,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.Events.PublishEvent(ctx, strconv.FormatUint(uint64(userID), 10), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_failed", "event", eventType, "error", err)
	}
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenRevoked):
		return "revoked"
	case errors.Is(err, domain.ErrTokenInvalid):
		return "invalid"
	default:
		return "error"
	}
}

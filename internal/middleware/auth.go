package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/card_collection/internal/domain"
	"github.com/Skotchmaster/card_collection/internal/metrics"
	"github.com/Skotchmaster/card_collection/internal/models"
	"github.com/Skotchmaster/card_collection/internal/transport"
	"github.com/Skotchmaster/card_collection/pkg/logging"
	"github.com/Skotchmaster/card_collection/pkg/tokens"
)

const bearerPrefix = "Bearer "

type RoleResolver interface {
	GetUserRole(ctx context.Context, userID uint) (*models.Role, error)
}

type AccessVerifier interface {
	VerifyAccess(token string) (*tokens.Claims, error)
}

// Authenticator verifies bearer access tokens and attaches the caller's
// identity to the request context. It never touches refresh tokens.
type Authenticator struct {
	Tokens  AccessVerifier
	Roles   RoleResolver
	Metrics *metrics.Metrics
}

func NewAuthenticator(tk AccessVerifier, roles RoleResolver, m *metrics.Metrics) *Authenticator {
	return &Authenticator{Tokens: tk, Roles: roles, Metrics: m}
}

func (a *Authenticator) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("mw", "authenticate")

		token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			a.Metrics.AuthOutcome("authenticate", "missing")
			return transport.Respond(c, http.StatusUnauthorized, transport.MsgTokenMissing, nil, domain.ErrTokenMissing)
		}

		claims, err := a.Tokens.VerifyAccess(token)
		if err != nil {
			outcome := "invalid"
			if errors.Is(err, domain.ErrTokenExpired) {
				outcome = "expired"
			}
			l.Warn("authentication_failed", "status", 401, "reason", outcome, "error", err)
			a.Metrics.AuthOutcome("authenticate", outcome)
			return transport.Respond(c, http.StatusUnauthorized, transport.MsgAuthError, nil, err)
		}

		role, err := a.Roles.GetUserRole(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				l.Warn("authentication_failed", "status", 401, "reason", "user not found", "user_id", claims.UserID)
				a.Metrics.AuthOutcome("authenticate", "user_not_found")
				return transport.Respond(c, http.StatusUnauthorized, transport.MsgUserNotFound, nil, nil)
			}
			l.Error("authentication_failed", "status", 401, "reason", "role lookup failed", "error", err)
			a.Metrics.AuthOutcome("authenticate", "error")
			return transport.Respond(c, http.StatusUnauthorized, transport.MsgAuthError, nil, err)
		}

		id := domain.Identity{UserID: claims.UserID, Role: domain.Role(role.Name)}
		ctx = domain.ContextWithIdentity(ctx, id)
		ctx = logging.With(ctx, "user_id", id.UserID)
		c.SetRequest(c.Request().WithContext(ctx))

		a.Metrics.AuthOutcome("authenticate", "success")
		return next(c)
	}
}

// Authorize admits callers whose role is in allowed. It must run after
// RequireAuth; without an identity the request is refused.
func Authorize(m *metrics.Metrics, allowed ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			id, ok := domain.IdentityFromContext(ctx)
			if !ok {
				logging.FromContext(ctx).Error("authorize_without_identity", "path", c.Path())
				m.AuthOutcome("authorize", "no_identity")
				return transport.Respond(c, http.StatusForbidden, transport.MsgForbidden, nil, domain.ErrForbidden)
			}
			if !id.Role.In(allowed...) {
				logging.FromContext(ctx).Warn("access_denied", "status", 403, "role", id.Role)
				m.AuthOutcome("authorize", "denied")
				return transport.Respond(c, http.StatusForbidden, transport.MsgForbidden, nil, domain.ErrForbidden)
			}
			m.AuthOutcome("authorize", "allowed")
			return next(c)
		}
	}
}

// IdentityFrom returns the identity attached by RequireAuth.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	return domain.IdentityFromContext(c.Request().Context())
}

func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", false
	}
	return token, true
}

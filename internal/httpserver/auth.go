package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/card_collection/internal/domain"
	"github.com/Skotchmaster/card_collection/internal/middleware"
	"github.com/Skotchmaster/card_collection/internal/service"
	"github.com/Skotchmaster/card_collection/internal/transport"
	"github.com/Skotchmaster/card_collection/pkg/logging"
)

var errInvalidBody = transport.Invalid(transport.FieldError{Field: "body", Message: "JSON invalide"})

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return transport.Respond(c, http.StatusBadRequest, transport.MsgValidation, nil, errInvalidBody)
	}
	if errs := req.Normalize(); len(errs) > 0 {
		verr := transport.Invalid(errs...)
		l.Warn("login_error", "status", 400, "error", verr)
		return transport.Respond(c, http.StatusBadRequest, transport.MsgValidation, nil, verr)
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialsInvalid) {
			return transport.Respond(c, http.StatusUnauthorized, transport.MsgLoginBad, nil, nil)
		}
		return transport.Respond(c, http.StatusInternalServerError, transport.MsgLoginFailed, nil, err)
	}

	return transport.Respond(c, http.StatusOK, transport.MsgLoginOK, transport.LoginResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	}, nil)
}

func (h *AuthHTTP) RefreshToken(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("refresh_error", "status", 400, "error", err)
		return transport.Respond(c, http.StatusBadRequest, transport.MsgValidation, nil, errInvalidBody)
	}
	if errs := req.Normalize(); len(errs) > 0 {
		return transport.Respond(c, http.StatusBadRequest, transport.MsgValidation, nil, transport.Invalid(errs...))
	}

	res, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		if domain.IsTokenRejection(err) {
			return transport.Respond(c, http.StatusUnauthorized, transport.MsgRefreshBad, nil, nil)
		}
		return transport.Respond(c, http.StatusInternalServerError, transport.MsgRefreshError, nil, err)
	}

	return transport.Respond(c, http.StatusOK, transport.MsgRefreshOK, transport.RefreshResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	}, nil)
}

// LogOut revokes the authenticated caller's session. The body is optional.
func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	id, ok := middleware.IdentityFrom(c)
	if !ok {
		l.Error("logout_without_identity")
		return transport.Respond(c, http.StatusUnauthorized, transport.MsgTokenMissing, nil, domain.ErrTokenMissing)
	}

	var req transport.LogoutRequest
	if err := c.Bind(&req); err != nil {
		l.Debug("logout_body_ignored", "error", err)
	}

	if err := h.Svc.LogOut(ctx, id, req.RefreshToken); err != nil {
		return transport.Respond(c, http.StatusInternalServerError, transport.MsgLogoutFailed, nil, err)
	}
	return transport.Respond(c, http.StatusOK, transport.MsgLogoutOK, nil, nil)
}

func (h *AuthHTTP) Profile(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := middleware.IdentityFrom(c)
	if !ok {
		logging.FromContext(ctx).Error("profile_without_identity")
		return transport.Respond(c, http.StatusUnauthorized, transport.MsgTokenMissing, nil, domain.ErrTokenMissing)
	}

	user, err := h.Svc.Profile(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return transport.Respond(c, http.StatusNotFound, transport.MsgUserNotFound, nil, nil)
		}
		return transport.Respond(c, http.StatusInternalServerError, transport.MsgProfileError, nil, err)
	}
	return transport.Respond(c, http.StatusOK, transport.MsgProfileOK, user, nil)
}

func (h *AuthHTTP) AdminPing(c echo.Context) error {
	id, _ := middleware.IdentityFrom(c)
	return transport.Respond(c, http.StatusOK, "pong", echo.Map{"id_user": id.UserID, "role": id.Role}, nil)
}

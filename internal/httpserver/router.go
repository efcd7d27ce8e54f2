package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/card_collection/internal/domain"
	"github.com/Skotchmaster/card_collection/internal/metrics"
	"github.com/Skotchmaster/card_collection/internal/middleware"
	"github.com/Skotchmaster/card_collection/internal/transport"
	"github.com/Skotchmaster/card_collection/pkg/logging"
)

type Deps struct {
	AuthHandler *AuthHTTP
	Auth        *middleware.Authenticator
	Metrics     *metrics.Metrics

	// Ready backs /health/ready; nil means always ready.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready == nil {
			return c.NoContent(http.StatusOK)
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := d.Ready(ctx); err != nil {
			logging.FromContext(ctx).Warn("readiness_failed", "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	auth := e.Group("/auth")
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh-token", d.AuthHandler.RefreshToken)

	private := auth.Group("")
	private.Use(d.Auth.RequireAuth)

	private.POST("/logout", d.AuthHandler.LogOut)
	private.GET("/profile", d.AuthHandler.Profile)
	private.GET("/admin/ping", d.AuthHandler.AdminPing, middleware.Authorize(d.Metrics, domain.RoleAdmin))
}

// ErrorHandler keeps framework errors (unknown route, bad method, panics
// caught by Recover) inside the response envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		} else {
			msg = http.StatusText(code)
		}
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = transport.Respond(c, code, msg, nil, nil)
}

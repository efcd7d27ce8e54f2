package loggingmw

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/card_collection/pkg/logging"
)

// RequestLogger puts a request-scoped logger into the request context and
// writes one "request completed" line per request, graded by status.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return ecM.RequestLoggerWithConfig(ecM.RequestLoggerConfig{
		HandleError:     true,
		LogLatency:      true,
		LogStatus:       true,
		LogError:        true,
		LogRequestID:    true,
		LogURIPath:      true,
		LogRoutePath:    true,
		LogMethod:       true,
		LogRemoteIP:     true,
		LogUserAgent:    true,
		LogResponseSize: true,
		BeforeNextFunc: func(c echo.Context) {
			req := c.Request()
			l := base.With(
				"method", req.Method,
				"path", c.Path(),
				"url", req.URL.Path,
			)
			if rid := requestID(c); rid != "" {
				l = l.With("request_id", rid)
				c.Response().Header().Set(echo.HeaderXRequestID, rid)
			}
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))
		},
		LogValuesFunc: func(c echo.Context, v ecM.RequestLoggerValues) error {
			l := logging.FromContext(c.Request().Context())
			attrs := []any{
				"status", v.Status,
				"duration_ms", v.Latency.Milliseconds(),
				"remote_ip", v.RemoteIP,
				"user_agent", v.UserAgent,
			}
			switch {
			case v.Error != nil || v.Status >= 500:
				if v.Error != nil {
					attrs = append(attrs, "error", v.Error.Error())
				}
				l.Error("request completed", attrs...)
			case v.Status >= 400:
				l.Warn("request completed", attrs...)
			default:
				l.Info("request completed", append(attrs, "bytes", v.ResponseSize)...)
			}
			return nil
		},
	})
}

func requestID(c echo.Context) string {
	if rid := c.Request().Header.Get(echo.HeaderXRequestID); rid != "" {
		return rid
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

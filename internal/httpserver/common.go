package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/card_collection/internal/metrics"
	loggingmw "github.com/Skotchmaster/card_collection/pkg/middleware/logging"
)

// Common is the middleware chain shared by every route, outermost first.
func Common(logger *slog.Logger, m *metrics.Metrics) []echo.MiddlewareFunc {
	mws := []echo.MiddlewareFunc{
		ecM.Recover(),
		ecM.RequestID(),
		loggingmw.RequestLogger(logger),
		ecM.Secure(),
	}
	if m != nil {
		mws = append(mws, m.Middleware())
	}
	return mws
}

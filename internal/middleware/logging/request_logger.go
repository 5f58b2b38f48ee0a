package loggingmw

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/teashop/internal/logging"
)

// RequestLogger stores a request-scoped logger in the request context and
// logs one line per request. Successful requests to quietRoutes (health
// checks) are logged at debug.
func RequestLogger(base *slog.Logger, quietRoutes ...string) echo.MiddlewareFunc {
	quiet := make(map[string]struct{}, len(quietRoutes))
	for _, r := range quietRoutes {
		quiet[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = c.Request().Header.Get(echo.HeaderXRequestID)
			}

			l := base.With(
				"method", c.Request().Method,
				"path", c.Path(),
				"url", c.Request().URL.Path,
				"remote_ip", c.RealIP(),
				"user_agent", c.Request().UserAgent(),
			)
			if rid != "" {
				l = l.With("request_id", rid)
				c.Response().Header().Set(echo.HeaderXRequestID, rid)
			}

			req := c.Request().WithContext(logging.IntoContext(c.Request().Context(), l))
			c.SetRequest(req)

			start := time.Now()
			err := next(c)
			dur := time.Since(start)
			status := c.Response().Status

			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
				status = c.Response().Status
			}

			_, isQuiet := quiet[c.Path()]

			switch {
			case status >= 500:
				l.Error("request completed", "status", status, "duration_ms", dur.Milliseconds(), "error", errStr(err))
			case status >= 400:
				l.Warn("request completed", "status", status, "duration_ms", dur.Milliseconds(), "error", errStr(err))
			case isQuiet:
				l.Debug("request completed", "status", status, "duration_ms", dur.Milliseconds())
			default:
				l.Info("request completed", "status", status, "duration_ms", dur.Milliseconds(), "bytes", c.Response().Size)
			}
			return nil
		}
	}
}

func errStr(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%v", err)
}

package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// 1リクエスト1行のアクセスログ
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status

			ev := log.Info()
			if status >= 500 {
				ev = log.Error()
			}
			ev = ev.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", status).
				Dur("latency", time.Since(start))
			if id, ok := IdentityFrom(c); ok {
				ev = ev.Int64("user_id", id.UserID)
			}
			if err != nil {
				ev = ev.Err(err)
			}
			ev.Msg("request")
			return nil
		}
	}
}

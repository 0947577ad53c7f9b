package middleware

import (
	"net/http"

	"storefront/internal/domain/policy"

	"github.com/labstack/echo/v4"
)

// contextのIdentityのロールで操作を許可するか判定する。
func RequireCapability(op policy.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			if !policy.Allow(op, id.Role) {
				return c.JSON(http.StatusForbidden, errorJSON("forbidden"))
			}

			return next(c)
		}
	}
}

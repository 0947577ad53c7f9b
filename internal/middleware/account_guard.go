package middleware

import (
	"errors"
	"net/http"

	"storefront/internal/repository"

	"github.com/labstack/echo/v4"
)

// トークンのアカウントがまだ存在し、ロールが変わっていないか確認。
func AccountGuard(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//DBから最新のuserを取得する
			user, err := userRepo.FindByID(c.Request().Context(), id.UserID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				// DB障害はログアウト扱いにしない
				return c.JSON(http.StatusServiceUnavailable, errorJSON("service temporarily unavailable"))
			}
			if err != nil || user == nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//ロールが変わっていれば再ログインさせる
			if user.Role != id.Role || user.Username != id.Username {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			return next(c)
		}
	}
}

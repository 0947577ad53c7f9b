package server

import (
	"net/http"

	"storefront/internal/config"
	"storefront/internal/repository"

	"github.com/labstack/echo/v4"
)

// 各handlerのルート登録
type RouteRegistrar interface {
	RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository)
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository, handlers ...RouteRegistrar) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	for _, h := range handlers {
		h.RegisterRoutes(e, cfg, userRepo)
	}
}

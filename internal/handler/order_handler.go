package handler

import (
	"net/http"

	"storefront/internal/config"
	"storefront/internal/domain/policy"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// 一覧は自分の注文（管理者は全件）、詳細は持ち主か管理者
func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/orders")
	g.Use(middleware.AuthCookie(cfg))
	g.Use(middleware.AccountGuard(userRepo))
	g.Use(middleware.RequireCapability(policy.OpListOrders))

	g.GET("", h.list)
	g.GET("/:id", h.detail)
}

func (h *OrderHandler) list(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}

	orders, err := h.uc.ListOrders(c.Request().Context(), id, c.QueryParam("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) detail(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}

	o, err := h.uc.GetOrderDetail(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	setETag(c, o.ETag)
	return c.JSON(http.StatusOK, o)
}

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

// /cartのHTTP
type CartHandler struct {
	cart   *usecase.CartUsecase
	orders *usecase.OrderUsecase
}

// DI
func NewCartHandler(cart *usecase.CartUsecase, orders *usecase.OrderUsecase) *CartHandler {
	return &CartHandler{cart: cart, orders: orders}
}

type AddCartRequest struct {
	ProductID string `json:"product_id" form:"product_id"`
}

// /cart 以下を登録
func (h *CartHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/cart")
	g.Use(middleware.AuthCookie(cfg))
	g.Use(middleware.AccountGuard(userRepo))
	g.Use(middleware.RequireCapability(policy.OpUseCart))

	g.GET("", h.getCart)
	g.DELETE("", h.clear)
	g.POST("/items", h.add)
	g.DELETE("/items/:product_id", h.remove)
	g.POST("/checkout", h.checkout, middleware.RequireCapability(policy.OpCheckout))
}

func (h *CartHandler) getCart(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	items := h.cart.GetCart(c.Request().Context(), id.SessionID)
	return c.JSON(http.StatusOK, usecase.NewCartResponse(items))
}

func (h *CartHandler) add(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}

	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	items, err := h.cart.Add(c.Request().Context(), id.SessionID, req.ProductID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, usecase.NewCartResponse(items))
}

func (h *CartHandler) remove(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}

	items, err := h.cart.Remove(c.Request().Context(), id.SessionID, c.Param("product_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, usecase.NewCartResponse(items))
}

func (h *CartHandler) clear(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.cart.Clear(c.Request().Context(), id.SessionID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, usecase.NewCartResponse(nil))
}

func (h *CartHandler) checkout(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}

	o, err := h.orders.Checkout(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, o)
}

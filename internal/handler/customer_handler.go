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

type CustomerRequest struct {
	RowKey      string `json:"row_key"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	City        string `json:"city"`
	ETag        string `json:"etag"`
}

// /admin/customers
type CustomerHandler struct {
	uc *usecase.CustomerUsecase
}

func NewCustomerHandler(uc *usecase.CustomerUsecase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

func (h *CustomerHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := e.Group("/admin")
	admin.Use(middleware.AuthCookie(cfg))
	admin.Use(middleware.AccountGuard(userRepo))
	admin.Use(middleware.RequireCapability(policy.OpManageCustomers))

	admin.GET("/customers", h.list)
	admin.GET("/customers/:id", h.get)
	admin.POST("/customers", h.create)
	admin.PUT("/customers/:id", h.update)
	admin.DELETE("/customers/:id", h.delete)
}

func (r CustomerRequest) input(etag string) usecase.CustomerInput {
	return usecase.CustomerInput{
		RowKey:      r.RowKey,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Address:     r.Address,
		City:        r.City,
		ETag:        etag,
	}
}

func (h *CustomerHandler) list(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	items, err := h.uc.List(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CustomerHandler) get(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	cust, err := h.uc.Get(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	setETag(c, cust.ETag)
	return c.JSON(http.StatusOK, cust)
}

func (h *CustomerHandler) create(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	cust, err := h.uc.Create(c.Request().Context(), id, req.input(""))
	if err != nil {
		return writeError(c, err)
	}
	setETag(c, cust.ETag)
	return c.JSON(http.StatusCreated, cust)
}

func (h *CustomerHandler) update(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	cust, err := h.uc.Update(c.Request().Context(), id, c.Param("id"), req.input(etagFrom(c, req.ETag)))
	if err != nil {
		return writeError(c, err)
	}
	setETag(c, cust.ETag)
	return c.JSON(http.StatusOK, cust)
}

func (h *CustomerHandler) delete(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.uc.Delete(c.Request().Context(), id, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/config"
	"storefront/internal/domain/policy"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminOrderHandler struct {
	uc    *usecase.AdminOrderUsecase
	audit *usecase.AuditLogUsecase
}

func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase, audit *usecase.AuditLogUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc, audit: audit}
}

type AdminOrderCreateRequest struct {
	CustomerRowKey   string   `json:"customer_row_key"`
	CustomerUsername string   `json:"customer_username"`
	ProductIDs       []string `json:"product_ids"`
	Quantity         int64    `json:"quantity"`
	Status           string   `json:"status"`
}

type AdminOrderEditRequest struct {
	CustomerRowKey string   `json:"customer_row_key"`
	ProductIDs     []string `json:"product_ids"`
	Quantity       int64    `json:"quantity"`
	TotalPrice     int64    `json:"total_price"`
	Status         string   `json:"status"`
	ETag           string   `json:"etag"`
}

type OrderStatusUpdateRequest struct {
	Status string `json:"status"`
	ETag   string `json:"etag"`
}

type StatusOptionsResponse struct {
	Options []string `json:"options"`
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := e.Group("/admin")
	admin.Use(middleware.AuthCookie(cfg))
	admin.Use(middleware.AccountGuard(userRepo))
	admin.Use(middleware.RequireCapability(policy.OpManageOrders))

	admin.GET("/orders/status-options", h.statusOptions)
	admin.POST("/orders", h.create)
	admin.PUT("/orders/:id", h.edit)
	admin.PATCH("/orders/:id/status", h.updateStatus)
	admin.DELETE("/orders/:id", h.delete)
	admin.GET("/audit-logs", h.auditLogs)
}

func (h *AdminOrderHandler) statusOptions(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusOptionsResponse{Options: h.uc.StatusOptions()})
}

func (h *AdminOrderHandler) create(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}

	var req AdminOrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	o, err := h.uc.CreateOrder(c.Request().Context(), id, usecase.AdminCreateOrderInput{
		CustomerRowKey:   req.CustomerRowKey,
		CustomerUsername: req.CustomerUsername,
		ProductIDs:       req.ProductIDs,
		Quantity:         req.Quantity,
		Status:           req.Status,
	})
	if err != nil {
		return writeError(c, err)
	}
	setETag(c, o.ETag)
	return c.JSON(http.StatusCreated, o)
}

func (h *AdminOrderHandler) edit(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}

	var req AdminOrderEditRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	o, err := h.uc.EditOrder(c.Request().Context(), id, c.Param("id"), usecase.AdminEditOrderInput{
		CustomerRowKey: req.CustomerRowKey,
		ProductIDs:     req.ProductIDs,
		Quantity:       req.Quantity,
		TotalPrice:     req.TotalPrice,
		Status:         req.Status,
		ETag:           etagFrom(c, req.ETag),
	})
	if err != nil {
		return writeError(c, err)
	}
	setETag(c, o.ETag)
	return c.JSON(http.StatusOK, o)
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}

	var req OrderStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	o, err := h.uc.UpdateStatus(c.Request().Context(), id, c.Param("id"), usecase.AdminUpdateOrderStatusInput{
		Status: req.Status,
		ETag:   etagFrom(c, req.ETag),
	})
	if err != nil {
		return writeError(c, err)
	}
	setETag(c, o.ETag)
	return c.JSON(http.StatusOK, o)
}

func (h *AdminOrderHandler) delete(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.uc.DeleteOrder(c.Request().Context(), id, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminOrderHandler) auditLogs(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}

	in := usecase.ListAuditLogsInput{
		ResourceType: c.QueryParam("resource_type"),
		ResourceID:   c.QueryParam("resource_id"),
	}
	if v := c.QueryParam("actor_user_id"); v != "" {
		actor, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid actor_user_id"})
		}
		in.ActorUserID = &actor
	}
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		in.Limit = l
	}

	logs, err := h.audit.List(c.Request().Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, logs)
}

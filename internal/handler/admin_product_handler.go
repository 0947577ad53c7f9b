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

// JSONでもmultipart（image付き）でも受ける
type ProductRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	Price       int64  `json:"price" form:"price"`
	Stock       int64  `json:"stock" form:"stock"`
	Category    string `json:"category" form:"category"`
	ETag        string `json:"etag" form:"etag"`
}

// /admin/products
type AdminProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.ProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

// adminを登録
func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := e.Group("/admin")

	admin.Use(middleware.AuthCookie(cfg))
	admin.Use(middleware.AccountGuard(userRepo))
	admin.Use(middleware.RequireCapability(policy.OpManageProducts))

	admin.POST("/products", h.createProduct)
	admin.PUT("/products/:id", h.updateProduct)
	admin.DELETE("/products/:id", h.deleteProduct)
}

// bodyを読んで、imageファイルがあれば開く。closeは呼び出し側。
func readProductInput(c echo.Context) (usecase.AdminProductInput, func(), error) {
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return usecase.AdminProductInput{}, func() {}, err
	}

	in := usecase.AdminProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		ETag:        etagFrom(c, req.ETag),
	}

	fh, err := c.FormFile("image")
	if err != nil {
		// 画像なし
		return in, func() {}, nil
	}
	f, err := fh.Open()
	if err != nil {
		return usecase.AdminProductInput{}, func() {}, err
	}
	in.Image = &usecase.ProductImage{Filename: fh.Filename, Body: f}
	return in, func() { f.Close() }, nil
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}

	in, done, err := readProductInput(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	defer done()

	p, err := h.uc.AdminCreateProduct(c.Request().Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	setETag(c, p.ETag)
	return c.JSON(http.StatusCreated, p)
}

func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}

	in, done, err := readProductInput(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	defer done()

	p, err := h.uc.AdminUpdateProduct(c.Request().Context(), id, c.Param("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	setETag(c, p.ETag)
	return c.JSON(http.StatusOK, p)
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.uc.AdminDeleteProduct(c.Request().Context(), id, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

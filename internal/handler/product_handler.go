package handler

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"storefront/internal/config"
	"storefront/internal/domain/policy"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /products の閲覧API
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// 商品のルートを登録（画像だけは未ログインでも見られる）
func (h *ProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	e.GET("/images/:name", h.image)

	g := e.Group("/products")
	g.Use(middleware.AuthCookie(cfg))
	g.Use(middleware.AccountGuard(userRepo))
	g.Use(middleware.RequireCapability(policy.OpBrowseProducts))

	g.GET("", h.list)
	g.GET("/:id", h.detail)
}

func (h *ProductHandler) list(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}

	items, err := h.uc.ListProducts(c.Request().Context(), id, usecase.ListProductsInput{
		Q:        c.QueryParam("q"),
		Category: c.QueryParam("category"),
		Sort:     c.QueryParam("sort"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}

	p, err := h.uc.GetProductDetail(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	setETag(c, p.ETag)
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) image(c echo.Context) error {
	rc, err := h.uc.OpenImage(c.Request().Context(), c.Param("name"))
	if err != nil {
		return writeError(c, err)
	}
	defer rc.Close()

	ct := mime.TypeByExtension(filepath.Ext(c.Param("name")))
	if ct == "" {
		ct = echo.MIMEOctetStream
	}
	return c.Stream(http.StatusOK, ct, io.Reader(rc))
}

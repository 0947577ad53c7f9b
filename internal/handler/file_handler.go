package handler

import (
	"fmt"
	"net/http"

	"storefront/internal/config"
	"storefront/internal/domain/policy"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /files アップロードファイルの一覧・送受信
type FileHandler struct {
	uc *usecase.FileUsecase
}

func NewFileHandler(uc *usecase.FileUsecase) *FileHandler {
	return &FileHandler{uc: uc}
}

type uploadResponse struct {
	Name string `json:"name"`
}

func (h *FileHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/files")
	g.Use(middleware.AuthCookie(cfg))
	g.Use(middleware.AccountGuard(userRepo))
	g.Use(middleware.RequireCapability(policy.OpManageFiles))

	g.GET("", h.list)
	g.POST("", h.upload)
	g.GET("/:name", h.download)
	g.DELETE("/:name", h.delete)
}

func (h *FileHandler) list(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	files, err := h.uc.List(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, files)
}

func (h *FileHandler) upload(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}

	fh, err := c.FormFile("file")
	if err != nil || fh.Size == 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid file"})
	}
	defer f.Close()

	name, err := h.uc.Upload(c.Request().Context(), id, fh.Filename, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, uploadResponse{Name: name})
}

func (h *FileHandler) download(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}

	rc, name, err := h.uc.Download(c.Request().Context(), id, c.Param("name"))
	if err != nil {
		return writeError(c, err)
	}
	defer rc.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Stream(http.StatusOK, echo.MIMEOctetStream, rc)
}

func (h *FileHandler) delete(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.uc.Delete(c.Request().Context(), id, c.Param("name")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

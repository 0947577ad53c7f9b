package handler

import (
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
}

// AuthCookieが入れたIdentityを取り出す
func identity(c echo.Context) (model.Identity, bool) {
	return middleware.IdentityFrom(c)
}

// If-Matchヘッダ優先、無ければbodyの値
func etagFrom(c echo.Context, body string) string {
	if v := strings.TrimSpace(c.Request().Header.Get("If-Match")); v != "" {
		return strings.Trim(strings.TrimPrefix(v, "W/"), `"`)
	}
	return strings.TrimSpace(body)
}

func setETag(c echo.Context, etag string) {
	if etag != "" {
		c.Response().Header().Set("ETag", `"`+etag+`"`)
	}
}

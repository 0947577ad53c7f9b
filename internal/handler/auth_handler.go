package handler

import (
	"net/http"
	"time"

	"storefront/internal/config"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	uc           *usecase.AuthUsecase
	cookieSecure bool
}

// DIコンストラクタ
func NewAuthHandler(uc *usecase.AuthUsecase, cfg config.Config) *AuthHandler {
	return &AuthHandler{uc: uc, cookieSecure: cfg.CookieSecure}
}

type loginResponse struct {
	User      usecase.UserDTO `json:"user"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/auth")
	g.POST("/register", h.register)
	g.POST("/login", h.login)

	authed := e.Group("/auth")
	authed.Use(middleware.AuthCookie(cfg))
	authed.POST("/logout", h.logout)
	authed.GET("/me", h.me, middleware.AccountGuard(userRepo))
}

func (h *AuthHandler) register(c echo.Context) error {
	var req usecase.RegisterInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Register(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req usecase.LoginInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	res, err := h.uc.Login(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	h.setSessionCookie(c, res.Token, res.ExpiresAt)
	return c.JSON(http.StatusOK, loginResponse{User: res.User, ExpiresAt: res.ExpiresAt})
}

func (h *AuthHandler) logout(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.uc.Logout(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}

	h.setSessionCookie(c, "", time.Unix(0, 0))
	return c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

func (h *AuthHandler) me(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.Me(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// セッショントークンをHttpOnly cookieに入れる（空なら削除）
func (h *AuthHandler) setSessionCookie(c echo.Context, token string, exp time.Time) {
	ck := &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	}
	if token == "" {
		ck.MaxAge = -1
	}
	c.SetCookie(ck)
}

package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/repository"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingHandler struct{ called bool }

func (h *pingHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	h.called = true
	e.GET("/ping", func(c echo.Context) error {
		panic("boom")
	})
}

func TestRegisterRoutes(t *testing.T) {
	e := New(zerolog.Nop())
	h := &pingHandler{}
	RegisterRoutes(e, config.Config{}, nil, h)
	assert.True(t, h.called)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	// panicはRecoverで500になる
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStart_StopsOnCancel(t *testing.T) {
	e := New(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Start(ctx, e, "127.0.0.1:0", zerolog.Nop()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

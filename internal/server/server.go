package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"storefront/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

// echoの共通設定（panic回復とアクセスログ）
func New(log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log))
	return e
}

// ctxが終わるまで待ち受ける。終わったらShutdownして戻る。
func Start(ctx context.Context, e *echo.Echo, addr string, log zerolog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

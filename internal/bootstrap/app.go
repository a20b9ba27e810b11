package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/99minutos/identity-store/internal/infrastructure/config"
)

const shutdownTimeout = 10 * time.Second

// App encapsulates the HTTP server lifecycle.
type App struct {
	cfg    *config.Config
	log    zerolog.Logger
	router *echo.Echo
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, log zerolog.Logger, router *echo.Echo) *App {
	return &App{cfg: cfg, log: log.With().Str("component", "bootstrap").Logger(), router: router}
}

// Run serves until ctx is cancelled or the listener fails, then drains
// in-flight requests.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		addr := ":" + a.cfg.Port
		a.log.Info().Str("address", addr).Msg("http server starting")
		if err := a.router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return a.router.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

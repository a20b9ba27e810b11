package main

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/identity-store/internal/api"
	"github.com/99minutos/identity-store/internal/bootstrap"
	"github.com/99minutos/identity-store/internal/core/domain"
	"github.com/99minutos/identity-store/internal/infrastructure/config"
)

type (
	defaultBackend = bootstrap.Backend[*domain.Account, *domain.Role]
	defaultStores  = bootstrap.Stores[domain.Account, *domain.Account, domain.Role, *domain.Role]
)

func provideBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*defaultBackend, func(), error) {
	b, err := bootstrap.OpenBackend[domain.Account, *domain.Account, domain.Role, *domain.Role](ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := b.Close(context.WithoutCancel(ctx)); err != nil {
			log.Warn().Err(err).Msg("closing backend")
		}
	}
	return b, cleanup, nil
}

func provideStores(b *defaultBackend, log zerolog.Logger) (*defaultStores, error) {
	return bootstrap.NewStores[domain.Account, *domain.Account, domain.Role, *domain.Role](b.Accounts, b.Roles, log)
}

func provideRouter(cfg *config.Config, log zerolog.Logger, b *defaultBackend, s *defaultStores) *echo.Echo {
	return api.NewRouter(api.Deps{
		Accounts:  s.Accounts,
		Roles:     s.Roles,
		JWTSecret: cfg.JWTSecret,
		Log:       log,
		Checks:    b.Checks,
	})
}

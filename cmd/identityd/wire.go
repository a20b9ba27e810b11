//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/99minutos/identity-store/internal/bootstrap"
	"github.com/99minutos/identity-store/internal/infrastructure/config"
)

func initializeApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*bootstrap.App, func(), error) {
	wire.Build(
		provideBackend,
		provideStores,
		provideRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}

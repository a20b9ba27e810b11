// Command identityd serves the identity store admin API.
//
// @title                       Identity Store Admin API
// @version                     1.0
// @description                 Administrative access to identity accounts and roles.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/99minutos/identity-store/internal/bootstrap"
	"github.com/99minutos/identity-store/internal/infrastructure/config"
	"github.com/99minutos/identity-store/pkg/logger"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "identityd",
		Short:         "Identity store service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before reading the environment")

	root.AddCommand(newServeCmd(), newEnsureIndexesCmd())
	return root
}

// setup loads configuration and initialises the process logger.
func setup() (*config.Config, zerolog.Logger) {
	boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
	cfg := config.Load(boot)
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "identityd",
		Caller:  !cfg.IsProduction(),
	})
	return cfg, log
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the admin HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, log := setup()
			app, cleanup, err := initializeApp(ctx, cfg, log)
			if err != nil {
				log.Error().Err(err).Msg("failed to wire application")
				return err
			}
			defer cleanup()

			if err := app.Run(ctx); err != nil {
				log.Error().Err(err).Msg("application stopped with error")
				return err
			}
			log.Info().Msg("application stopped")
			return nil
		},
	}
}

func newEnsureIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ensure-indexes",
		Short: "Create the MongoDB lookup indexes and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log := setup()
			if err := bootstrap.EnsureIndexes(cmd.Context(), cfg, log); err != nil {
				log.Error().Err(err).Msg("ensure indexes failed")
				return err
			}
			return nil
		},
	}
}

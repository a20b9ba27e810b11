package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/identity-store/docs"
	"github.com/99minutos/identity-store/internal/api/handler"
	"github.com/99minutos/identity-store/internal/api/middleware"
)

// Deps are the collaborators the admin API is built from.
type Deps struct {
	Accounts  handler.AccountStore
	Roles     handler.RoleStore
	JWTSecret string
	Log       zerolog.Logger
	// Checks are pinged by the readiness probe, keyed by dependency name.
	Checks map[string]handler.Pinger
	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "identity",
		Registerer: d.Registerer,
	}))

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Admin API ---
	accounts := handler.NewAccountHandler(d.Accounts, d.Log)
	roles := handler.NewRoleHandler(d.Roles, d.Log)

	v1 := e.Group("/v1", middleware.Auth(d.JWTSecret), middleware.AdminOnly())

	v1.POST("/accounts", accounts.Create)
	v1.GET("/accounts", accounts.Search)
	v1.GET("/accounts/:id", accounts.Get)
	v1.DELETE("/accounts/:id", accounts.Delete)
	v1.POST("/accounts/:id/roles", accounts.AddRole)
	v1.DELETE("/accounts/:id/roles/:role", accounts.RemoveRole)
	v1.POST("/accounts/:id/claims", accounts.AddClaims)
	v1.POST("/accounts/:id/lockout/reset", accounts.ResetLockout)

	v1.POST("/roles", roles.Create)
	v1.GET("/roles", roles.List)
	v1.GET("/roles/:id", roles.Get)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

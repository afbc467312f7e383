package main

import (
	"context"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/jcarranz97/colony/internal/config"
	"github.com/jcarranz97/colony/internal/db"
	"github.com/jcarranz97/colony/internal/middleware"
	"github.com/jcarranz97/colony/internal/repository"
	"github.com/jcarranz97/colony/internal/security"
	"github.com/jcarranz97/colony/internal/services"
)

const version = "1.0.0"

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	// ======================
	// INFRA
	// ======================
	pool, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	// ======================
	// SECURITY
	// ======================
	hasher := security.NewPasswordHasher()
	codec, err := security.NewTokenCodec(cfg.Auth.SecretKey, cfg.Auth.Algorithm)
	if err != nil {
		log.Fatal().Err(err).Msg("build token codec")
	}
	tokenTTL := time.Duration(cfg.Auth.AccessTokenExpireMinutes) * time.Minute

	// ======================
	// REPOSITORIES
	// ======================
	userRepo := repository.NewUserRepository(pool)
	paymentMethodRepo := repository.NewPaymentMethodRepository(pool)

	// ======================
	// SERVICES
	// ======================
	authSvc := services.NewAuthService(userRepo, hasher, codec, tokenTTL, log)
	paymentMethodSvc := services.NewPaymentMethodService(paymentMethodRepo, log)

	authMW := middleware.NewAuthMiddleware(codec, userRepo)

	// ======================
	// ECHO
	// ======================
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = httpErrorHandler(log)

	registerRootRoutes(e, cfg.AppName)

	api := e.Group("/api/v1")

	// ======================
	// ROUTES (ONLY REGISTRATION)
	// ======================
	registerAuthRoutes(api, authSvc, authMW)
	registerPaymentMethodRoutes(api, paymentMethodSvc, authMW)

	// ======================
	// SERVER
	// ======================
	log.Info().Str("port", cfg.Port).Str("app", cfg.AppName).Msg("starting server")
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

// registerRootRoutes serves the unauthenticated info and health endpoints.
func registerRootRoutes(e *echo.Echo, appName string) {
	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, echo.Map{
			"message": appName + " is running",
			"version": version,
		})
	})

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, echo.Map{
			"status":  "healthy",
			"service": appName,
			"version": version,
		})
	})
}

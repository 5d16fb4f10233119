package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/ethanrimes/tiktok-recommendation-engine/internal/config"
	"github.com/ethanrimes/tiktok-recommendation-engine/internal/database"
	"github.com/ethanrimes/tiktok-recommendation-engine/internal/handlers"
	"github.com/ethanrimes/tiktok-recommendation-engine/internal/middleware"
	"github.com/ethanrimes/tiktok-recommendation-engine/internal/services"
)

type App struct {
	config   *config.Config
	logger   *logrus.Logger
	db       *database.Database
	services *services.Services
	handlers *handlers.Handlers
	router   *gin.Engine
}

func New(cfg *config.Config) (*App, error) {
	app := &App{
		config: cfg,
		logger: setupLogger(cfg),
	}

	db, err := database.New(cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	services, err := services.New(cfg, app.logger, db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	app.services = services

	app.handlers, err = handlers.New(app.logger, services, db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	app.setupRouter()

	return app, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application...")

	if a.services.Publisher != nil {
		if err := a.services.Publisher.Close(); err != nil {
			a.logger.WithError(err).Error("Error closing Kafka publisher")
		}
	}

	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Error("Error closing database connections")
		return err
	}

	return nil
}

func setupLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

func (a *App) setupRouter() {
	if a.config.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(a.logger))
	router.Use(middleware.Recovery(a.logger))
	router.Use(middleware.CORS(a.config))

	// Health and metrics endpoints skip auth
	router.GET("/health", a.handlers.Health.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.Use(middleware.Auth(a.services.Auth, a.logger))

		users := api.Group("/users/:username")
		{
			users.POST("/affinities", a.handlers.Affinity.Profile)
			users.GET("/affinities", a.handlers.Affinity.List)
			users.POST("/recommendations", a.handlers.Recommendation.Rank)
			users.GET("/recommendations", a.handlers.Recommendation.Latest)
		}
	}

	a.router = router
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/suteetoe/tripplanner/internal/handler"
	"github.com/suteetoe/tripplanner/internal/middleware"
	"github.com/suteetoe/tripplanner/internal/model"
	"github.com/suteetoe/tripplanner/pkg/config"
	"github.com/suteetoe/tripplanner/pkg/database"
	"github.com/suteetoe/tripplanner/pkg/logger"
	"github.com/suteetoe/tripplanner/pkg/session"
	"github.com/suteetoe/tripplanner/pkg/storage"
	"github.com/suteetoe/tripplanner/pkg/view"
	"github.com/suteetoe/tripplanner/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load("tripplanner")
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting trip planner...", zap.String("environment", cfg.Server.Env))

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	// Initialize database and run migrations
	db, err := database.InitDB(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.MigrateModels(
		&model.User{}, &model.Trip{}, &model.Itinerary{}, &model.File{},
	); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connection established and migrations completed",
		zap.String("db_host", cfg.DB.Host), zap.String("db_name", cfg.DB.DBName))

	// Initialize file storage
	store, err := newStore(cfg)
	if err != nil {
		log.Fatal("Failed to initialize file storage", zap.Error(err))
	}
	log.Info("File storage initialized", zap.String("backend", cfg.Storage.Backend))

	// Cookie session store
	sessions := session.NewManager(&cfg.Session)

	h := handler.NewHandler(db, sessions, store)
	auth := &middleware.Auth{DB: db, Sessions: sessions}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Renderer = view.New()

	// Middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(sessions.Middleware())

	// Request logging middleware
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Process request
			err := next(c)

			// Calculate duration
			duration := time.Since(start).Seconds()
			status := c.Response().Status

			// Log request details
			log := logger.FromContext(c)
			log.Info("HTTP Request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", status),
				zap.Float64("duration_s", duration),
				zap.String("ip", c.RealIP()),
			)

			prometheus.HttpRequestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				strconv.Itoa(status),
			).Inc()

			prometheus.HttpRequestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
				strconv.Itoa(status),
			).Observe(duration)

			return err
		}
	})

	// Public routes
	e.GET("/", h.Home)
	e.GET("/healthz", h.Health)
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))
	e.GET("/register", h.RegisterForm)
	e.POST("/register", h.Register)
	e.GET("/login", h.LoginForm)
	e.POST("/login", h.Login)
	e.GET("/logout", h.Logout)
	e.GET("/trip/:id", h.ViewTrip)

	// Routes that require an authenticated session
	authed := e.Group("", auth.RequireLogin)
	authed.GET("/dashboard", h.Dashboard)
	authed.POST("/trip/add", h.AddTrip)
	authed.GET("/trip/:id/edit", h.EditTripForm)
	authed.POST("/trip/:id/edit", h.EditTrip)
	authed.POST("/trip/:id/delete", h.DeleteTrip)
	authed.POST("/trip/:id/itinerary/add", h.AddItinerary)
	authed.GET("/itinerary/:id/edit", h.EditItineraryForm)
	authed.POST("/itinerary/:id/edit", h.EditItinerary)
	authed.POST("/itinerary/:id/delete", h.DeleteItinerary)
	authed.POST("/trip/:id/upload", h.UploadFile)
	authed.POST("/file/:id/delete", h.DeleteFile)

	// Start server with graceful shutdown
	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	log.Info("Server stopped")
}

// newStore selects the file storage backend from configuration.
func newStore(cfg *config.Config) (storage.Store, error) {
	if cfg.Storage.Backend == "s3" {
		return storage.NewObjectStore(&cfg.Storage)
	}
	return storage.NewLocalStore(cfg.Storage.UploadDir)
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dafibh/finanzas/finanzas-backend/internal/app"
	"github.com/dafibh/finanzas/finanzas-backend/internal/cache"
	"github.com/dafibh/finanzas/finanzas-backend/internal/config"
	"github.com/dafibh/finanzas/finanzas-backend/internal/handler"
	"github.com/dafibh/finanzas/finanzas-backend/internal/middleware"
	"github.com/dafibh/finanzas/finanzas-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title Finanzas API
// @version 1.0
// @description Personal finance ledger with monthly snapshots and real savings reconciliation.
// @BasePath /api/v1
func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	opts, err := app.OptionsFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid engine configuration")
	}

	// Connect to the ledger
	store, closeStore, err := app.OpenStore(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open ledger store")
	}
	defer closeStore()

	services := app.NewServices(store, cache.New(cfg.CacheTTL), opts)

	// WebSocket hub fans change events out to dashboards
	hub := websocket.NewHub()
	services.SetEventPublisher(hub)

	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		ExposeHeaders: []string{handler.HeaderDegraded, "Retry-After", echo.HeaderContentDisposition},
		MaxAge:        86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	handler.RegisterRoutes(e, rateLimiter, handler.Handlers{
		Account:     handler.NewAccountHandler(services.Accounts),
		Transaction: handler.NewTransactionHandler(services.Transactions),
		Recurring:   handler.NewRecurringHandler(services.Recurring),
		Report:      handler.NewReportHandler(services.Reports),
		Dashboard:   handler.NewDashboardHandler(services.Dashboard, services.Goals),
		Analysis:    handler.NewAnalysisHandler(services.Analysis),
		Savings:     handler.NewSavingsHandler(services.Reconciliation),
		Goals:       handler.NewGoalsHandler(services.Goals),
		Settings:    handler.NewSettingsHandler(services.Settings),
		WebSocket:   handler.NewWebSocketHandler(hub, cfg.CORSOrigins),
	})

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.LedgerBackend).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			event := log.Info()
			if res.Status >= http.StatusInternalServerError {
				event = log.Warn()
			}
			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Bool("degraded", res.Header().Get(handler.HeaderDegraded) == "true").
				Msg("request")

			return nil
		}
	}
}

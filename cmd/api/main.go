// Package main is the entry point for the book-discovery-service API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"book-discovery-service/internal/app/service"
	"book-discovery-service/internal/config"
	"book-discovery-service/internal/infra/provider/registry"
	"book-discovery-service/internal/job"
	"book-discovery-service/internal/logger"
	"book-discovery-service/internal/transport/httpserver"
	"book-discovery-service/internal/transport/httpserver/middleware"
	"book-discovery-service/internal/validator"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("APP_CONFIG_FILE"))
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(cfg.Logger, cfg.Sentry)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting book-discovery-service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
		zap.String("openlibrary", cfg.OpenLibrary.BaseURL),
		zap.String("wikipedia", cfg.Wikipedia.BaseURL),
	)

	// Create provider clients
	providers := registry.New(cfg, log.Logger)

	// Create services
	sessions := service.NewSessionRegistry(providers.Catalog, service.SessionConfig{
		PageSize: cfg.Search.PageSize,
		Suggest: service.SuggesterConfig{
			Delay:     cfg.Search.SuggestionDelay,
			Limit:     cfg.Search.SuggestionLimit,
			FetchSize: cfg.Search.SuggestionFetchSize,
		},
		IdleTTL:     cfg.Session.IdleTTL,
		MaxSessions: cfg.Session.MaxSessions,
	}, log.Named("session").Logger)
	detailsSvc := service.NewDetailsService(providers.Catalog, providers.Encyclopedia, log.Logger)
	activitySvc := service.NewActivityService(providers.Catalog, cfg.Search.RecentChangesLimit, log.Logger)

	// Create HTTP server
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Port:         cfg.App.Port,
			Debug:        cfg.App.Debug,
			TemplatesDir: cfg.App.TemplatesDir,
			StaticDir:    cfg.App.StaticDir,
			Session: middleware.SessionConfig{
				CookieName: cfg.Session.CookieName,
				MaxAge:     cfg.Session.IdleTTL,
				Secure:     cfg.App.Env == "production",
			},
		},
		httpserver.Services{
			Sessions: sessions,
			Details:  detailsSvc,
			Activity: activitySvc,
		},
		validator.New(),
		log.Logger,
	)

	// Start idle session reaper
	reaper := job.NewSessionReaper(sessions, cfg.Session.ReapInterval, log.Logger)
	reaper.Start()

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		reaper.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.App.ShutdownWithContext(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}

		sessions.CloseAll()
	}()

	// Start server
	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

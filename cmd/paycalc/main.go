package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"paycalc/internal/alloc"
	"paycalc/internal/config"
	"paycalc/internal/docs"
	"paycalc/internal/log"
	"paycalc/internal/qbo"
	"paycalc/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logger := log.New(log.Config{
		Level:     parseLevel(cfg.LogLevel),
		Component: log.ComponentApp,
	})
	log.SetDefault(logger)

	logger.Info("Starting paycalc")

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize the QuickBooks client; the token manager is optional and
	// only enables the expired-token retry.
	var tokens *qbo.TokenManager
	if cfg.QBORefreshToken != "" {
		tokens = qbo.NewTokenManager(cfg.QBOClientID, cfg.QBOClientSecret,
			cfg.QBOTokenURL, cfg.QBORefreshToken, cfg.EnvFile)
	} else {
		logger.Warn("No refresh token configured - expired access tokens will fail the run")
	}
	qboClient := qbo.NewClient(qbo.Options{
		BaseURL:     cfg.QBOBaseURL,
		RealmID:     cfg.QBORealmID,
		AccessToken: cfg.QBOAccessToken,
		Tokens:      tokens,
	})

	// Initialize the document store
	store, err := docs.NewStore(ctx, docs.Backend(cfg.DocsBackend), cfg.LocalConfigFile,
		logger.WithComponent(log.ComponentDocs))
	if err != nil {
		logger.Error("Failed to initialize document store", log.FieldError, err)
		os.Exit(1)
	}

	// Wire the allocation pipeline
	engine := alloc.NewEngine(alloc.Policy{
		CutoffDate: cfg.Cutoff(),
		UrgentDays: cfg.UrgentDays,
	})
	planner := alloc.NewPlanner(engine, logger.WithComponent(log.ComponentAlloc))

	processor := services.NewRunProcessor(services.Options{
		Reports:          qboClient,
		Store:            store,
		Planner:          planner,
		Logger:           logger.WithComponent(log.ComponentRun),
		LocalOutputFile:  cfg.LocalOutputFile,
		RemoteOutputFile: cfg.RemoteOutputFile,
	})

	if err := processor.Run(ctx); err != nil {
		logger.Error("Prioritization run failed", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Prioritization run complete")
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

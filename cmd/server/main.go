package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/lumabook/scheduling-backend/internal/app"
	"github.com/lumabook/scheduling-backend/internal/config"
	"github.com/lumabook/scheduling-backend/internal/db"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.IsProduction)
	defer logger.Sync()

	// Connect DB
	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("failed to connect to db", zap.Error(err))
	}
	defer pool.Close()

	// Apply migrations
	migrator, err := app.NewMigrator(pool, logger)
	if err != nil {
		logger.Fatal("failed to init migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	// Wire modules
	container := app.NewContainer(app.Config{
		IsProduction:       cfg.IsProduction,
		ProdOrigins:        cfg.ProdOrigins,
		DBPool:             pool,
		JWTSecret:          cfg.JWTSecret,
		MeetingProviderURL: cfg.MeetingProviderURL,
		NotifyWebhookURL:   cfg.NotifyWebhookURL,
		ReminderPollEvery:  cfg.ReminderPollEvery,
		Logger:             logger,
	})

	// Background reminder dispatch
	container.ReminderScheduler.Start(ctx)
	defer container.ReminderScheduler.Stop()

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	// Run server in separate goroutine
	go func() {
		logger.Info("server running", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	logger.Info("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited gracefully")
}

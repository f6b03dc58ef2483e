package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"washlog/internal/config"
	apphttp "washlog/internal/http"
	applog "washlog/internal/log"
	"washlog/internal/services"
	"washlog/internal/session"
	"washlog/internal/storage"
	"washlog/internal/washapi"
	"washlog/internal/washapi/memory"
)

func main() {
	// Load .env for local development (ignore errors in production)
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     logLevel(cfg.LogLevel),
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	db, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open local storage", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer db.Close()

	sessions := session.NewSQLiteStore(db)

	var backend washapi.Backend
	switch cfg.Backend {
	case "memory":
		backend = memory.New()
		logger.Info("Initialized memory backend", "backend", cfg.Backend)
	default:
		backend = washapi.NewClient(cfg.WashAPIBaseURL, cfg.WashAPITimeout)
		logger.Info("Initialized remote backend",
			"backend", cfg.Backend,
			"base_url", cfg.WashAPIBaseURL,
			"timeout", cfg.WashAPITimeout)
	}

	auth := services.NewAuth(backend, sessions)
	entries := services.NewEntryLog(backend, backend, backend)

	srv := apphttp.NewServer(":"+cfg.Port, logger, auth, entries, cfg.CacheSize, cfg.CacheTTL)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 15 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting washlog server", "port", cfg.Port, "backend", cfg.Backend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

func logLevel(s string) slog.Level {
	switch s {
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

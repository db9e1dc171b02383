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

	"paisa/internal/chart"
	"paisa/internal/config"
	"paisa/internal/docstore"
	"paisa/internal/entry"
	apphttp "paisa/internal/http"
)

const (
	expensesCollection = "expenses"
	savingsCollection  = "savings"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	var (
		expenseColl docstore.Collection
		savingColl  docstore.Collection
		ready       func(ctx context.Context) error
	)

	switch cfg.DataBackend {
	case "sqlite":
		store, err := docstore.OpenSQLite(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open SQLite store", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Error("SQLite close error", "error", err)
			}
		}()
		expenseColl = store.Collection(expensesCollection)
		savingColl = store.Collection(savingsCollection)
		ready = store.Ping
		logger.Info("Initialized SQLite backend", "backend", cfg.DataBackend, "path", cfg.SQLiteDBPath)
	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		store, err := docstore.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		cancel()
		if err != nil {
			logger.Error("Failed to connect to MongoDB", "error", err, "database", cfg.MongoDatabase)
			os.Exit(1)
		}
		defer func() {
			closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer closeCancel()
			if err := store.Close(closeCtx); err != nil {
				logger.Error("MongoDB disconnect error", "error", err)
			}
		}()
		expenseColl = store.Collection(expensesCollection)
		savingColl = store.Collection(savingsCollection)
		ready = store.Ping
		logger.Info("Initialized MongoDB backend", "backend", cfg.DataBackend, "database", cfg.MongoDatabase)
	default:
		expenseColl = docstore.NewMemory()
		savingColl = docstore.NewMemory()
		logger.Info("Initialized memory backend", "backend", cfg.DataBackend)
	}

	expenses := entry.NewExpenses(expenseColl)
	savings := entry.NewSavings(savingColl)
	charts := chart.NewStore()

	srv := apphttp.NewServer(":"+cfg.Port, expenses, savings, charts, ready)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting paisa server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

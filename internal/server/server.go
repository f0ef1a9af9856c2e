package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mmcdole/notehub/internal/store"
)

// Config holds the development server settings
type Config struct {
	Listen   string
	DBPath   string
	Token    string
	SeedFile string
}

// Run serves the notes API until ctx is cancelled or a shutdown signal arrives
func Run(ctx context.Context, cfg Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	notes, err := store.NewNoteStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer notes.Close()

	if cfg.SeedFile != "" {
		seed, err := LoadSeed(cfg.SeedFile)
		if err != nil {
			return err
		}
		n, err := notes.Seed(seed)
		if err != nil {
			return fmt.Errorf("seed store: %w", err)
		}
		logger.Info("Seeded notes", slog.Int("count", n), slog.String("file", cfg.SeedFile))
	}

	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           NewRouter(notes, cfg.Token, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...",
		slog.String("http_address", cfg.Listen),
		slog.String("db_path", cfg.DBPath),
		slog.Bool("auth", cfg.Token != ""),
		slog.Int("notes", notes.Count()))

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped")
	return nil
}

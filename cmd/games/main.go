package main

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

	"games_library/internal/config"
	"games_library/internal/importer/steam"
	"games_library/internal/library"
	"games_library/internal/logger"
	"games_library/internal/routes"
	"games_library/internal/storage/backend"
	"games_library/internal/storage/uploads"
)

func main() {
	cfg := config.MustLoad()

	log := logger.Setup(cfg.Env, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server failed", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}
}

// run serves until ctx is done. Every return path closes the library before
// the storage backend, so pending writes reach storage.
func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	log.Info("starting server",
		slog.String("env", cfg.Env),
		slog.String("storage", cfg.Storage.Driver))

	uploadsStorage, err := uploads.NewUploads(cfg.UploadsPath)
	if err != nil {
		return fmt.Errorf("create uploads storage: %w", err)
	}

	kv, err := backend.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	if kv != nil {
		defer func() {
			if err := kv.Close(); err != nil {
				log.Error("failed to close storage", slog.String("error", err.Error()))
			}
		}()
	}

	lib := library.New(kv, log, library.Options{
		SchemaVersion: cfg.Storage.SchemaVersion,
		Debounce:      cfg.Storage.Debounce,
		PruneOrphans:  cfg.Storage.PruneOrphans,
	})
	lib.Load(context.Background())
	defer func() {
		if err := lib.Close(); err != nil {
			log.Error("failed to close library", slog.String("error", err.Error()))
		}
	}()

	log.Info("library init")

	importer := steam.New(cfg.Steam.Timeout, cfg.Steam.Language, log)

	r := routes.SetupRouter(log, lib, importer, uploadsStorage, cfg.HTTPServer.AllowRemote)

	server := &http.Server{
		Addr:        cfg.HTTPServer.Address,
		Handler:     r,
		ReadTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout: cfg.HTTPServer.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		log.Info("listening", slog.String("address", cfg.HTTPServer.Address))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}

	case <-ctx.Done():
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown error", slog.String("error", err.Error()))
			if err := server.Close(); err != nil {
				log.Error("force shutdown error", slog.String("error", err.Error()))
			}
		}
	}

	log.Info("server stopped")
	return nil
}

// Command server exposes the attribution pipeline over HTTP: upload a hit-data TSV or
// point it at an S3 object and get the keyword revenue report back.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignite/search-attribution/internal/api"
	"github.com/ignite/search-attribution/internal/config"
	"github.com/ignite/search-attribution/internal/etl"
	"github.com/ignite/search-attribution/internal/pkg/logger"
	"github.com/ignite/search-attribution/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (optional)")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	job := etl.New(cfg, store)
	server := api.NewServer(cfg.Server, job)

	logger.Info("starting attribution server", "addr", server.Addr(), "storage", cfg.Storage.Type)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("Server error: %v", err)
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}
}

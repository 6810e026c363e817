package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/awinkler/bgblwatch/internal/api"
	"github.com/awinkler/bgblwatch/internal/assist"
	"github.com/awinkler/bgblwatch/internal/config"
	"github.com/awinkler/bgblwatch/internal/pipeline"
	"github.com/awinkler/bgblwatch/internal/ris"
	"github.com/awinkler/bgblwatch/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	feed := ris.NewClient(cfg.RISBaseURL)
	docStore := store.NewClient(cfg.StoreURL, cfg.StoreAPIKey)
	assistant := assist.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, feed, feed, docStore, assistant, log)

	// Optional background polling.
	if cfg.PollInterval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.PollInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if _, err := orch.RunPass(ctx); err != nil {
						log.Error("scheduled pass failed", "error", err)
					}
				}
			}
		}()
	}

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 15 * time.Minute, // an ingest pass runs synchronously
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		assistant.Close()
		feed.Close()
		docStore.Close()
	}()

	log.Info("starting bgblwatch", "port", cfg.Port, "jurisdiction", cfg.Jurisdiction)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

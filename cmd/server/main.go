package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inkpost/inkpost/internal/api"
	"github.com/inkpost/inkpost/internal/assist"
	"github.com/inkpost/inkpost/internal/config"
	"github.com/inkpost/inkpost/internal/pipeline"
	"github.com/inkpost/inkpost/internal/render"
	"github.com/inkpost/inkpost/internal/store"
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

	// Initialize the content store.
	st, err := store.New(cfg.ContentDir, log)
	if err != nil {
		log.Error("opening content dir", "dir", cfg.ContentDir, "error", err)
		os.Exit(1)
	}

	// The assist client is optional: without a key the endpoints
	// report unavailable and imports skip the proofread pass.
	var claude *assist.Client
	if cfg.AnthropicAPIKey != "" {
		claude = assist.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	} else {
		log.Warn("ANTHROPIC_API_KEY not set, assist disabled")
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, st, claude, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(st, render.New(render.Options{}), orch, claude, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if claude != nil {
			claude.Close()
		}
	}()

	log.Info("starting inkpost", "port", cfg.Port, "content_dir", cfg.ContentDir)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

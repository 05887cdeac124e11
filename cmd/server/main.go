package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkurbatov/chemscribe/internal/api"
	"github.com/mkurbatov/chemscribe/internal/config"
	"github.com/mkurbatov/chemscribe/internal/docstore"
	"github.com/mkurbatov/chemscribe/internal/keystore"
	"github.com/mkurbatov/chemscribe/internal/pipeline"
	"github.com/mkurbatov/chemscribe/internal/recognize"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	keys := keystore.Open(cfg.APIKeyFile)
	if cfg.MistralAPIKey != "" && !keys.IsSet() {
		if err := keys.Set(cfg.MistralAPIKey); err != nil {
			log.Warn("seed api key not persisted", "error", err)
		}
	}

	stats := recognize.NewCallStats(time.Hour)
	client := recognize.NewClient(cfg.MistralBaseURL, keys.Get, stats)
	recognizer := recognize.NewRecognizer(client, recognize.Options{
		OCRModel:          cfg.OCRModel,
		VisionModel:       cfg.VisionModel,
		VisionFallback:    cfg.VisionFallbackModel,
		RefinerModel:      cfg.RefinerModel,
		RefineMaxAttempts: cfg.RefineMaxAttempts,
		RefineBaseDelay:   cfg.RefineBaseDelay,
	}, log)

	processor := pipeline.NewProcessor(recognizer, pipeline.Options{
		NormalizeConditions:  cfg.NormalizeConditions,
		MaxConcurrent:        cfg.MaxConcurrentProcess,
		PDFFallbackPdftotext: cfg.PDFFallbackPdftotext,
	}, log)

	docs, err := docstore.New("", cfg.DocTTL)
	if err != nil {
		log.Error("init document store", "error", err)
		os.Exit(1)
	}

	// Evict expired documents in the background.
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				docs.Cleanup()
			}
		}
	}()

	srv := api.NewServer(processor, keys, docs, stats, log, cfg)

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

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		client.Close()
	}()

	log.Info("starting chemscribe", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

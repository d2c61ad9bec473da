package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/sheetdeck/internal/api"
	"github.com/dgallion1/sheetdeck/internal/config"
	"github.com/dgallion1/sheetdeck/internal/llm"
	"github.com/dgallion1/sheetdeck/internal/pipeline"
)

func main() {
	cfg := config.Load()
	level, _ := cfg.SlogLevel()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the completion backend.
	completer, err := llm.Open(ctx, cfg)
	if err != nil {
		log.Error("llm backend", "error", err)
		os.Exit(1)
	}

	conv := pipeline.NewConverter(completer, pipeline.OptionsFromConfig(cfg), llm.NewLLMStats(cfg.StatsWindow), log)

	// Initialize HTTP server.
	srv := api.NewServer(conv, log, cfg)

	httpServer := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     srv,
		ReadTimeout: 30 * time.Second,
		// Room for every LLM attempt plus backoff.
		WriteTimeout: time.Duration(pipeline.MaxRetries)*cfg.LLMTimeout + time.Duration(pipeline.MaxRetries-1)*cfg.RetryMax*3/2 + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if c, ok := completer.(*llm.HTTPClient); ok {
			c.Close()
		}
	}()

	log.Info("starting sheetdeck",
		"port", cfg.Port,
		"backend", cfg.LLMBackend,
		"model", cfg.OpenAIModel,
		"format", cfg.DeckFormat,
		"auth", cfg.SheetdeckAPIKey != "",
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

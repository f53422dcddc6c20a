package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fedutinova/logsuggest/internal/analyzer"
	appconfig "github.com/fedutinova/logsuggest/internal/config"
	"github.com/fedutinova/logsuggest/internal/gpt"
	"github.com/fedutinova/logsuggest/internal/server"
	httpapi "github.com/fedutinova/logsuggest/internal/transport/http"
)

const (
	serviceName    = "Log Suggestion API"
	serviceVersion = "1.0.0"
)

func main() {
	cfg, err := appconfig.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	slog.Info("starting "+serviceName,
		"version", serviceVersion,
		"addr", cfg.HTTPAddr,
		"model", cfg.OpenAIModel,
		"max_log_size_bytes", cfg.MaxLogSizeBytes,
		"cors_origin", cfg.CORSOrigin)

	gptClient := gpt.NewClient(gpt.Options{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
	})

	handlers := &httpapi.Handlers{
		Analyzer: analyzer.New(gptClient, cfg.MaxLogSizeBytes),
	}
	r := server.NewRouter(handlers, cfg.CORSOrigin)

	// No write timeout: the upstream call is bounded only by the provider client.
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	<-ch
	slog.Info("shutting down")

	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	_ = srv.Shutdown(shCtx)
}

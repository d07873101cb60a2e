package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"armhub/internal/adapter/httpserver"
	"armhub/internal/adapter/metrics"
	"armhub/internal/adapter/ollama"
	"armhub/internal/hub"
	"armhub/internal/platform/config"
	"armhub/internal/platform/logging"
)

const shutdownTimeout = 10 * time.Second

// runGracefulShutdown stops the HTTP server first so no new peers arrive,
// then stops the hub, which joins the heartbeat and closes every connection.
func runGracefulShutdown(srv *httpserver.Server, h *hub.Hub) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		h.Stop()
		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}

	logging.Init(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	registry := metrics.NewRegistry()
	wsMetrics := metrics.NewWebSocketMetrics(registry)
	translationMetrics := metrics.NewTranslationMetrics(registry)

	h := hub.New(clock, cfg.HeartbeatInterval, wsMetrics)
	translator := ollama.New(cfg.OllamaEndpoint, cfg.OllamaModel, cfg.OllamaTimeout, translationMetrics)

	srv := httpserver.NewServer(cfg, h, translator, registry)

	done := runGracefulShutdown(srv, h)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}

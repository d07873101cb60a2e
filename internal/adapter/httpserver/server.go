// Package httpserver exposes the hub over HTTP: the WebSocket upgrade path,
// the command translation endpoint, health probes, and the embedded landing
// page.
package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"armhub/internal/hub"
	"armhub/internal/platform/config"
)

// translator is the command translation dependency, satisfied by
// *ollama.Client. Interface on the consumer side keeps the stub surface small
// in tests.
type translator interface {
	Translate(ctx context.Context, command string) (any, error)
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	hub        *hub.Hub
	translator translator

	globalLimiter *hub.GlobalConnectionLimiter
	ipLimiter     *hub.IPConnectionLimiter

	metricsRegistry *prometheus.Registry
	startTime       time.Time
}

func NewServer(cfg *config.Config, h *hub.Hub, tr translator, reg *prometheus.Registry) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:            e,
		config:          cfg,
		hub:             h,
		translator:      tr,
		globalLimiter:   hub.NewGlobalConnectionLimiter(cfg.MaxWebSocketConnections),
		ipLimiter:       hub.NewIPConnectionLimiter(cfg.MaxConnectionsPerIP),
		metricsRegistry: reg,
		startTime:       time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

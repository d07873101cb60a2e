package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"armhub/internal/platform/correlation"
)

// handleWebSocket admits a peer through the connection limiters, upgrades the
// HTTP connection, and hands it to the hub for the rest of its lifetime.
func (s *Server) handleWebSocket(c echo.Context) error {
	ip := c.RealIP()

	if !s.globalLimiter.Acquire() {
		slog.Warn("Connection rejected: server at capacity", "current", s.globalLimiter.Current())
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "server at capacity"})
	}
	if !s.ipLimiter.Acquire(ip) {
		s.globalLimiter.Release()
		slog.Warn("Connection rejected: too many connections from IP", "ip", ip)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "too many connections"})
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     NewCheckOrigin(s.config.AppURL, s.config.IsDevelopment()),
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.ipLimiter.Release(ip)
		s.globalLimiter.Release()
		// Upgrade already wrote the HTTP error response.
		return nil
	}

	defer func() {
		s.ipLimiter.Release(ip)
		s.globalLimiter.Release()
	}()

	ctx := correlation.WithID(c.Request().Context(), correlation.NewID())
	s.hub.ServePeer(ctx, conn)
	return nil
}

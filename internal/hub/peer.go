package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/gorilla/websocket"

	"armhub/internal/domain"
)

const (
	welcomeMessage  = "connected"
	badFrameMessage = "not valid JSON"
	maxInboundFrame = 1 << 20 // 1 MiB
)

// ServePeer runs one peer's lifecycle: register, welcome, read loop,
// deregister. It blocks until the connection closes and always deregisters,
// regardless of how the loop exits.
func (h *Hub) ServePeer(ctx context.Context, conn *websocket.Conn) {
	id, err := h.Register(conn)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to register peer", "error", err)
		_ = conn.Close()
		return
	}
	// No ClientCount here: after a shutdown the actor is gone and a count
	// query would stall the disconnecting goroutine until its timeout.
	defer func() {
		h.Unregister(id)
		slog.InfoContext(ctx, "Peer disconnected", "connection_id", id)
	}()

	conn.SetReadLimit(maxInboundFrame)

	h.SendTo(id, domain.NewInfo(welcomeMessage, h.clock.Now()))
	slog.InfoContext(ctx, "Peer connected", "connection_id", id, "clients", h.ClientCount())

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.WarnContext(ctx, "Peer read error", "connection_id", id, "error", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		raw := strings.TrimSpace(string(data))
		slog.DebugContext(ctx, "Frame received", "connection_id", id, "raw", raw)

		if !json.Valid([]byte(raw)) {
			// Protocol error: reply privately, never broadcast, keep
			// the connection open.
			h.SendTo(id, domain.NewClientError(badFrameMessage, raw))
			continue
		}

		h.Broadcast(domain.NewBroadcast(domain.OriginClient, json.RawMessage(raw), h.clock.Now()), id)
	}
}

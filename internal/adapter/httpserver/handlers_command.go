package httpserver

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"armhub/internal/domain"
	"armhub/internal/errors"
)

type commandRequest struct {
	Command string `json:"command"`
	Prompt  string `json:"prompt"`
}

type commandResponse struct {
	Status  string `json:"status"`
	Payload any    `json:"payload"`
}

// handleCommand translates a free-text command into a joint payload and
// broadcasts it to every peer as a system-originated message. Translation
// failures reach no peer; the HTTP caller gets a definitive answer either way.
func (s *Server) handleCommand(c echo.Context) error {
	ctx := c.Request().Context()

	var req commandRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError("command is required")
	}

	command := strings.TrimSpace(req.Command)
	if command == "" {
		command = strings.TrimSpace(req.Prompt)
	}
	if command == "" {
		return errors.ValidationError("command is required")
	}

	slog.InfoContext(ctx, "Received command", "command", command)

	payload, err := s.translator.Translate(ctx, command)
	if err != nil {
		return errors.ExternalError("failed to generate payload", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errors.InternalError("failed to encode payload", err)
	}

	s.hub.Broadcast(domain.NewBroadcast(domain.OriginOllama, body, time.Now()), uuid.Nil)

	if err := c.JSON(http.StatusOK, commandResponse{Status: "ok", Payload: payload}); err != nil {
		return fmt.Errorf("failed to write command response: %w", err)
	}
	return nil
}

package hub

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"armhub/internal/adapter/metrics"
	"armhub/internal/domain"
)

const (
	commandTimeout = 5 * time.Second
	stopTimeout    = 10 * time.Second
)

type client struct {
	id     uuid.UUID
	conn   *websocket.Conn
	writer *clientWriter
}

// hubCmd is the command interface for the Hub actor.
type hubCmd interface{ isHubCmd() }

type baseHubCmd struct{}

func (baseHubCmd) isHubCmd() {}

type registerCmd struct {
	baseHubCmd
	connection   *websocket.Conn
	replyChannel chan uuid.UUID
}

type unregisterCmd struct {
	baseHubCmd
	id uuid.UUID
}

type sendToCmd struct {
	baseHubCmd
	id       uuid.UUID
	envelope *domain.Envelope
}

type broadcastCmd struct {
	baseHubCmd
	envelope   *domain.Envelope
	originator uuid.UUID // uuid.Nil for system-originated broadcasts
}

type clientCountCmd struct {
	baseHubCmd
	replyChannel chan int
}

type stopCmd struct {
	baseHubCmd
}

// Hub owns the set of connected peers and fans every broadcast Envelope out
// to all of them. The originator of a broadcast receives a variant tagged
// with selfEcho instead of the plain Envelope.
type Hub struct {
	cmdCh             chan hubCmd
	clock             clockwork.Clock
	clients           map[uuid.UUID]*client
	wsMetrics         *metrics.WebSocketMetrics
	heartbeatInterval time.Duration
	done              chan struct{}
}

// New creates a Hub and starts its actor goroutine. heartbeatInterval
// controls how often the liveness Envelope is broadcast to connected peers.
func New(clock clockwork.Clock, heartbeatInterval time.Duration, wsMetrics *metrics.WebSocketMetrics) *Hub {
	h := &Hub{
		cmdCh:             make(chan hubCmd, 256),
		clock:             clock,
		clients:           make(map[uuid.UUID]*client),
		wsMetrics:         wsMetrics,
		heartbeatInterval: heartbeatInterval,
		done:              make(chan struct{}),
	}
	go h.run()
	return h
}

// Register adds a connection to the registry and returns its assigned
// identity. The identity is never reused after the connection closes.
func (h *Hub) Register(conn *websocket.Conn) (uuid.UUID, error) {
	replyCh := make(chan uuid.UUID, 1)
	h.cmdCh <- registerCmd{connection: conn, replyChannel: replyCh}

	timer := h.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case id := <-replyCh:
		return id, nil
	case <-timer.Chan():
		// The queued command may still be processed later; undo the
		// registration the moment it lands so a client whose connection
		// the caller already closed never lingers in the registry.
		go func() {
			select {
			case id := <-replyCh:
				h.Unregister(id)
			case <-h.done:
			}
		}()
		return uuid.Nil, fmt.Errorf("register command timed out after %v", commandTimeout)
	}
}

// Unregister removes a connection from the registry and stops its writer.
// Unregistering an unknown or already-removed connection is a no-op.
func (h *Hub) Unregister(id uuid.UUID) {
	h.cmdCh <- unregisterCmd{id: id}
}

// SendTo delivers an Envelope to a single peer, bypassing fan-out. Used for
// the welcome notice and private protocol-error replies.
func (h *Hub) SendTo(id uuid.UUID, envelope *domain.Envelope) {
	h.cmdCh <- sendToCmd{id: id, envelope: envelope}
}

// Broadcast fans an Envelope out to every registered peer. When originator is
// not uuid.Nil, that peer receives the self-echo variant instead.
func (h *Hub) Broadcast(envelope *domain.Envelope, originator uuid.UUID) {
	h.cmdCh <- broadcastCmd{envelope: envelope, originator: originator}
}

// ClientCount returns the number of currently registered peers.
func (h *Hub) ClientCount() int {
	replyCh := make(chan int, 1)
	h.cmdCh <- clientCountCmd{replyChannel: replyCh}

	timer := h.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case count := <-replyCh:
		return count
	case <-timer.Chan():
		return 0
	}
}

// Stop shuts the hub down, closing all peer connections. It blocks until the
// actor goroutine has exited, so no heartbeat can race a tearing-down
// registry. Bounded by stopTimeout.
func (h *Hub) Stop() {
	h.cmdCh <- stopCmd{}

	timer := h.clock.NewTimer(stopTimeout)
	defer timer.Stop()

	select {
	case <-h.done:
		slog.Info("Hub stopped gracefully")
	case <-timer.Chan():
		slog.Warn("Hub stop timeout exceeded", "timeout", stopTimeout)
	}
}

func (h *Hub) run() {
	defer close(h.done)

	ticker := h.clock.NewTicker(h.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case cmd := <-h.cmdCh:
			switch c := cmd.(type) {
			case registerCmd:
				h.handleRegister(c)
			case unregisterCmd:
				h.handleUnregister(c.id)
			case sendToCmd:
				h.handleSendTo(c)
			case broadcastCmd:
				h.handleBroadcast(c)
			case clientCountCmd:
				c.replyChannel <- len(h.clients)
			case stopCmd:
				h.handleStop()
				return
			default:
				slog.Warn("Hub: unknown command type", "type", fmt.Sprintf("%T", cmd))
			}
		case <-ticker.Chan():
			h.handleHeartbeat()
		}
	}
}

func (h *Hub) handleRegister(c registerCmd) {
	id := uuid.New()
	h.clients[id] = &client{
		id:     id,
		conn:   c.connection,
		writer: newClientWriter(c.connection, h.clock),
	}
	if h.wsMetrics != nil {
		h.wsMetrics.ActiveConnections.Inc()
	}
	c.replyChannel <- id
}

func (h *Hub) handleUnregister(id uuid.UUID) {
	cl, exists := h.clients[id]
	if !exists {
		return
	}

	cl.writer.stop()
	delete(h.clients, id)
	if h.wsMetrics != nil {
		h.wsMetrics.ActiveConnections.Dec()
	}
	slog.Debug("Peer unregistered", "connection_id", id, "remaining", len(h.clients))
}

func (h *Hub) handleSendTo(c sendToCmd) {
	cl, exists := h.clients[c.id]
	if !exists {
		return
	}

	data, err := c.envelope.Encode()
	if err != nil {
		slog.Error("Failed to encode envelope", "error", err)
		return
	}
	h.deliver(cl, data)
}

// handleBroadcast fans one Envelope out to all peers. The shared Envelope is
// encoded once; only the originator gets a separately encoded self-echo copy.
func (h *Hub) handleBroadcast(c broadcastCmd) {
	if len(h.clients) == 0 {
		return
	}

	data, err := c.envelope.Encode()
	if err != nil {
		slog.Error("Failed to encode envelope", "error", err)
		return
	}

	var echoed []byte
	if c.originator != uuid.Nil {
		if echoed, err = c.envelope.EncodeSelfEcho(); err != nil {
			slog.Error("Failed to encode self-echo envelope", "error", err)
			echoed = data
		}
	}

	for id, cl := range h.clients {
		if id == c.originator {
			h.deliver(cl, echoed)
		} else {
			h.deliver(cl, data)
		}
	}

	if h.wsMetrics != nil {
		h.wsMetrics.MessagesBroadcast.Inc()
	}
}

// deliver hands data to the peer's writer without blocking the actor. A full
// buffer or a dead writer evicts the peer; remaining peers are unaffected.
func (h *Hub) deliver(cl *client, data []byte) {
	select {
	case cl.writer.sendChannel <- data:
	case <-cl.writer.doneChannel:
		slog.Info("Evicting closed peer", "connection_id", cl.id)
		if h.wsMetrics != nil {
			h.wsMetrics.SlowClientEvicted.Inc()
		}
		h.handleUnregister(cl.id)
	default:
		slog.Info("Evicting slow peer", "connection_id", cl.id)
		if h.wsMetrics != nil {
			h.wsMetrics.SlowClientEvicted.Inc()
		}
		h.handleUnregister(cl.id)
	}
}

// handleHeartbeat broadcasts a liveness Envelope, skipping the cycle entirely
// when no peer is connected.
func (h *Hub) handleHeartbeat() {
	if len(h.clients) == 0 {
		return
	}

	h.handleBroadcast(broadcastCmd{envelope: domain.NewHeartbeat(h.clock.Now())})
	if h.wsMetrics != nil {
		h.wsMetrics.HeartbeatsSent.Inc()
	}
}

func (h *Hub) handleStop() {
	for id, cl := range h.clients {
		cl.writer.stopGraceful("server shutting down")
		delete(h.clients, id)
		if h.wsMetrics != nil {
			h.wsMetrics.ActiveConnections.Dec()
		}
	}
}

package httpserver

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"armhub/internal/adapter/metrics"
	"armhub/internal/hub"
	"armhub/internal/platform/config"
)

// stubTranslator returns a fixed payload or error and counts invocations.
type stubTranslator struct {
	payload any
	err     error
	calls   atomic.Int32
}

func (s *stubTranslator) Translate(_ context.Context, _ string) (any, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.payload, nil
}

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:                  "development",
		Port:                    "0",
		AppURL:                  "http://localhost:3000",
		MaxWebSocketConnections: 100,
		MaxConnectionsPerIP:     100,
		CommandRatePerSecond:    1000,
		CommandBurst:            1000,
	}
}

type serverOption func(*config.Config)

// newTestServer wires a Server with a real hub behind an httptest listener.
func newTestServer(t *testing.T, tr translator, opts ...serverOption) (*Server, *httptest.Server) {
	t.Helper()

	cfg := testConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	reg := metrics.NewRegistry()
	h := hub.New(clockwork.NewRealClock(), time.Hour, metrics.NewWebSocketMetrics(reg))
	t.Cleanup(func() { h.Stop() })

	srv := NewServer(cfg, h, tr, reg)
	ts := httptest.NewServer(srv.echo)
	t.Cleanup(ts.Close)

	return srv, ts
}

func dialPeer(t *testing.T, ts *httptest.Server) *ws.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// Every peer is welcomed before anything else.
	frame := readFrame(t, conn)
	require.Equal(t, "info", frame["type"])
	return conn
}

func waitForClients(t *testing.T, srv *Server, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return srv.hub.ClientCount() == want
	}, time.Second, 5*time.Millisecond)
}

// assertNoFrame fails if anything arrives on the connection within a short
// grace window.
func assertNoFrame(t *testing.T, conn *ws.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	netErr, ok := err.(interface{ Timeout() bool })
	require.True(t, ok && netErr.Timeout(), "expected read timeout, got %v", err)
}

func readFrame(t *testing.T, conn *ws.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	return decoded
}

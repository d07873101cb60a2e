package httpserver

import (
	"net/http"
	"strings"
	"testing"

	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"armhub/internal/platform/config"
)

func TestWebSocket_ClientBroadcastRoundTrip(t *testing.T) {
	srv, ts := newTestServer(t, &stubTranslator{})

	sender := dialPeer(t, ts)
	bystander := dialPeer(t, ts)
	waitForClients(t, srv, 2)

	require.NoError(t, sender.WriteMessage(ws.TextMessage, []byte(`{"j1": 45}`)))

	// The sender's own copy is flagged, the bystander's is not.
	echoFrame := readFrame(t, sender)
	assert.Equal(t, "broadcast", echoFrame["type"])
	assert.Equal(t, "client", echoFrame["origin"])
	assert.Equal(t, map[string]any{"j1": float64(45)}, echoFrame["body"])
	assert.Equal(t, true, echoFrame["selfEcho"])

	plainFrame := readFrame(t, bystander)
	assert.Equal(t, "broadcast", plainFrame["type"])
	assert.Equal(t, "client", plainFrame["origin"])
	_, hasEcho := plainFrame["selfEcho"]
	assert.False(t, hasEcho)
}

func TestWebSocket_GlobalConnectionLimit(t *testing.T) {
	srv, ts := newTestServer(t, &stubTranslator{}, func(cfg *config.Config) {
		cfg.MaxWebSocketConnections = 1
	})

	dialPeer(t, ts)
	waitForClients(t, srv, 1)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := ws.DefaultDialer.Dial(url, nil)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestWebSocket_PerIPConnectionLimit(t *testing.T) {
	srv, ts := newTestServer(t, &stubTranslator{}, func(cfg *config.Config) {
		cfg.MaxConnectionsPerIP = 1
	})

	dialPeer(t, ts)
	waitForClients(t, srv, 1)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := ws.DefaultDialer.Dial(url, nil)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestWebSocket_ForeignOriginRejectedInProduction(t *testing.T) {
	_, ts := newTestServer(t, &stubTranslator{}, func(cfg *config.Config) {
		cfg.AppEnv = "production"
		cfg.AppURL = "https://armhub.example.com"
	})

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	header := http.Header{"Origin": []string{"https://evil.com"}}
	_, resp, err := ws.DefaultDialer.Dial(url, header)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func TestNewBroadcast_WireShape(t *testing.T) {
	env := NewBroadcast(OriginClient, json.RawMessage(`{"j1":45}`), testNow)

	data, err := env.Encode()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "broadcast", decoded["type"])
	assert.Equal(t, "client", decoded["origin"])
	assert.Equal(t, "2025-03-14T09:26:53Z", decoded["timestamp"])
	assert.Equal(t, map[string]any{"j1": 45.0}, decoded["body"])
	assert.NotContains(t, decoded, "selfEcho")
	assert.NotContains(t, decoded, "message")
	assert.NotContains(t, decoded, "raw")
}

func TestEncodeSelfEcho_AddsMarkerWithoutMutating(t *testing.T) {
	env := NewBroadcast(OriginClient, json.RawMessage(`{"j6":100}`), testNow)

	echoed, err := env.EncodeSelfEcho()
	require.NoError(t, err)

	var withMarker map[string]any
	require.NoError(t, json.Unmarshal(echoed, &withMarker))
	assert.Equal(t, true, withMarker["selfEcho"])

	// The shared Envelope must still serialize without the marker.
	plain, err := env.Encode()
	require.NoError(t, err)

	var withoutMarker map[string]any
	require.NoError(t, json.Unmarshal(plain, &withoutMarker))
	assert.NotContains(t, withoutMarker, "selfEcho")
}

func TestNewClientError_CarriesRawText(t *testing.T) {
	env := NewClientError("not valid JSON", "{broken")

	data, err := env.Encode()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "error", decoded["type"])
	assert.Equal(t, "not valid JSON", decoded["message"])
	assert.Equal(t, "{broken", decoded["raw"])
	assert.NotContains(t, decoded, "timestamp")
}

func TestNewHeartbeat_TimestampOnly(t *testing.T) {
	env := NewHeartbeat(testNow)

	data, err := env.Encode()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "heartbeat", decoded["type"])
	assert.Equal(t, "2025-03-14T09:26:53Z", decoded["timestamp"])
	assert.Len(t, decoded, 2)
}

func TestNewInfo_WelcomeShape(t *testing.T) {
	env := NewInfo("connected", testNow)

	data, err := env.Encode()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "info", decoded["type"])
	assert.Equal(t, "connected", decoded["message"])
	assert.Equal(t, "2025-03-14T09:26:53Z", decoded["timestamp"])
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "http://localhost:11434/api/generate", cfg.OllamaEndpoint)
	assert.Equal(t, "gemma3:4b", cfg.OllamaModel)
	assert.Equal(t, 60*time.Second, cfg.OllamaTimeout)
	assert.Equal(t, 10*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, int64(10000), cfg.MaxWebSocketConnections)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("OLLAMA_MODEL", "llama3:8b")
	t.Setenv("HEARTBEAT_INTERVAL", "2s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "llama3:8b", cfg.OllamaModel)
	assert.Equal(t, 2*time.Second, cfg.HeartbeatInterval)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"invalid endpoint", "OLLAMA_ENDPOINT", "not a url", "OLLAMA_ENDPOINT must be a valid URL"},
		{"zero timeout", "OLLAMA_TIMEOUT", "0s", "OLLAMA_TIMEOUT must be positive"},
		{"negative heartbeat", "HEARTBEAT_INTERVAL", "-1s", "HEARTBEAT_INTERVAL must be positive"},
		{"zero max connections", "MAX_WEBSOCKET_CONNECTIONS", "0", "MAX_WEBSOCKET_CONNECTIONS must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIsDevelopment(t *testing.T) {
	assert.True(t, (&Config{AppEnv: "development"}).IsDevelopment())
	assert.False(t, (&Config{AppEnv: "production"}).IsDevelopment())
}

package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"3000"`
	AppURL    string `env:"APP_URL" default:"http://localhost:3000"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	OllamaEndpoint string        `env:"OLLAMA_ENDPOINT" default:"http://localhost:11434/api/generate"`
	OllamaModel    string        `env:"OLLAMA_MODEL" default:"gemma3:4b"`
	OllamaTimeout  time.Duration `env:"OLLAMA_TIMEOUT" default:"60s"`

	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL" default:"10s"`

	MaxWebSocketConnections int64 `env:"MAX_WEBSOCKET_CONNECTIONS" default:"10000"`
	MaxConnectionsPerIP     int   `env:"MAX_CONNECTIONS_PER_IP" default:"32"`

	CommandRatePerSecond float64 `env:"COMMAND_RATE_PER_SECOND" default:"1"`
	CommandBurst         int     `env:"COMMAND_BURST" default:"5"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if _, err := url.ParseRequestURI(cfg.OllamaEndpoint); err != nil {
		return fmt.Errorf("OLLAMA_ENDPOINT must be a valid URL: %w", err)
	}
	if cfg.OllamaModel == "" {
		return fmt.Errorf("OLLAMA_MODEL is required")
	}
	if cfg.OllamaTimeout <= 0 {
		return fmt.Errorf("OLLAMA_TIMEOUT must be positive, got %v", cfg.OllamaTimeout)
	}
	if cfg.HeartbeatInterval <= 0 {
		return fmt.Errorf("HEARTBEAT_INTERVAL must be positive, got %v", cfg.HeartbeatInterval)
	}
	if cfg.MaxWebSocketConnections <= 0 {
		return fmt.Errorf("MAX_WEBSOCKET_CONNECTIONS must be positive, got %d", cfg.MaxWebSocketConnections)
	}
	if cfg.MaxConnectionsPerIP <= 0 {
		return fmt.Errorf("MAX_CONNECTIONS_PER_IP must be positive, got %d", cfg.MaxConnectionsPerIP)
	}
	return nil
}

// IsDevelopment reports whether the app runs outside production, which
// relaxes the WebSocket origin check to allow localhost origins.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv != "production"
}

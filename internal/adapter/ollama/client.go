// Package ollama translates free-text commands into structured joint payloads
// by calling an Ollama-compatible generation endpoint.
package ollama

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"armhub/internal/adapter/metrics"
)

//go:embed message-schema.json
var messageSchema string

// promptTemplate is substituted with the literal schema document and the
// user command. The contract the model is asked to honor is "JSON only, no
// explanation"; everything downstream is defensive against it being ignored.
const promptTemplate = `You are Jarvis controlling a 6-axis robot arm. Each joint controls:
- j1: Base yaw (rotation, -180 to 180 degrees)
- j2: Root pitch (torso tilt, 0 to 180 degrees, 90 equals a horizontal Y-axis alignment; higher is upward)
- j3: Elbow pitch (0 to 150 degrees)
- j4: Wrist pitch (-130 to 130 degrees)
- j5: Roll (-180 to 180 degrees)
- j6: Gripper open/close (0 to 100 percent)
Take this schema and craft a JSON payload that conforms to it, based on the user's short command.
Schema:
{schema}
Command: "{command}"
Respond with JSON only (no explanation).`

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// Client calls the generation endpoint and turns its answer into a payload.
type Client struct {
	httpClient *http.Client
	endpoint   string
	model      string
	timeout    time.Duration
	metrics    *metrics.TranslationMetrics
}

// New creates a Client. timeout bounds each generation call end to end; a
// translation never retries and never outlives it.
func New(endpoint, model string, timeout time.Duration, m *metrics.TranslationMetrics) *Client {
	return &Client{
		httpClient: &http.Client{},
		endpoint:   endpoint,
		model:      model,
		timeout:    timeout,
		metrics:    m,
	}
}

// Translate turns a free-text command into a JSON payload. On failure it
// returns a *TranslationError whose Kind distinguishes transport/timeout,
// empty output, and malformed JSON.
func (c *Client) Translate(ctx context.Context, command string) (any, error) {
	var timer *prometheus.Timer
	if c.metrics != nil {
		timer = prometheus.NewTimer(c.metrics.TranslationDuration)
	}

	payload, err := c.translate(ctx, command)

	if c.metrics != nil {
		timer.ObserveDuration()
		outcome := "success"
		if err != nil {
			outcome = "error"
			var translationErr *TranslationError
			if errors.As(err, &translationErr) {
				outcome = string(translationErr.Kind)
			}
		}
		c.metrics.TranslationsTotal.WithLabelValues(outcome).Inc()
	}

	return payload, err
}

func (c *Client) translate(ctx context.Context, command string) (any, error) {
	result, err := c.generate(ctx, command)
	if err != nil {
		return nil, err
	}

	candidate, ok := selectText(extractCandidates(result))
	if !ok {
		keys := make([]string, 0, len(result))
		for k := range result {
			keys = append(keys, k)
		}
		slog.ErrorContext(ctx, "No textual field in generation response", "keys", keys)
		return nil, noTextualOutput("generation response contained no usable text")
	}

	text := sanitize(candidate.text)
	if text == "" {
		return nil, noTextualOutput("generated text was empty after sanitization")
	}

	return c.decode(ctx, text, candidate.source)
}

// generate performs the single request/response call to the endpoint.
func (c *Client) generate(ctx context.Context, command string) (map[string]any, error) {
	prompt := buildPrompt(command)
	slog.DebugContext(ctx, "Sending generation request", "model", c.model, "prompt_len", len(prompt))

	body, err := json.Marshal(generateRequest{Model: c.model, Prompt: prompt, Stream: false})
	if err != nil {
		return nil, unavailable("failed to marshal generation request", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, unavailable("failed to build generation request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, unavailable("generation request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, unavailable(fmt.Sprintf("generation endpoint returned status %d", resp.StatusCode), nil)
	}

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, unavailable("generation response was not JSON", err)
	}
	return result, nil
}

// decode parses text as a single JSON value. Anything after the first
// complete value is discarded, which tolerates trailing model chatter, while
// leading garbage still fails.
func (c *Client) decode(ctx context.Context, text string, source candidateSource) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))

	var payload any
	if err := dec.Decode(&payload); err != nil {
		slog.InfoContext(ctx, "Generated text is not JSON", "source", source)
		return nil, malformedPayload("generated text is not valid JSON", err)
	}

	if trailing := strings.TrimSpace(text[dec.InputOffset():]); trailing != "" {
		slog.WarnContext(ctx, "Discarding trailing content after JSON payload", "source", source, "trailing", trailing)
	}

	return payload, nil
}

func buildPrompt(command string) string {
	return strings.NewReplacer(
		"{schema}", strings.TrimSpace(messageSchema),
		"{command}", command,
	).Replace(promptTemplate)
}

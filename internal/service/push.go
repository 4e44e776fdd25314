package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultPushGatewayURL is the Expo push endpoint used when no override
// is configured.
const DefaultPushGatewayURL = "https://exp.host/--/api/v2/push/send"

// Message is one push notification addressed to a single device token.
type Message struct {
	To    string            `json:"to"`
	Sound string            `json:"sound"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// NewMessage builds a message with the default notification sound.
func NewMessage(to, title, body string, data map[string]string) Message {
	return Message{
		To:    to,
		Sound: "default",
		Title: title,
		Body:  body,
		Data:  data,
	}
}

// Gateway delivers a batch of push messages. Implementations do not
// retry and do not report per-token delivery results.
type Gateway interface {
	Send(ctx context.Context, messages []Message) error
}

// ExpoGateway posts message batches to the Expo push HTTP API as a
// single JSON array. Responses are drained but not validated.
type ExpoGateway struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// ExpoGatewayConfig holds configuration for the Expo gateway
type ExpoGatewayConfig struct {
	URL     string
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewExpoGateway creates a new Expo push gateway client
func NewExpoGateway(cfg ExpoGatewayConfig) *ExpoGateway {
	url := cfg.URL
	if url == "" {
		url = DefaultPushGatewayURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpoGateway{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Send posts the full batch in one request
func (g *ExpoGateway) Send(ctx context.Context, messages []Message) error {
	if len(messages) == 0 {
		return nil
	}

	body, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("encoding push batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting push batch: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		g.logger.Warn("push gateway returned error status",
			"status", resp.StatusCode,
			"messages", len(messages))
		return fmt.Errorf("push gateway status %d", resp.StatusCode)
	}

	return nil
}

// Package remote submits single-image OCR requests to an
// OpenAI-compatible chat-completions endpoint and returns the verbatim
// JSON response body.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MeKo-Tech/remocr/internal/imageio"
)

// DefaultTimeout bounds a single request. Vision-model inference can
// take minutes per page, so this is deliberately generous.
const DefaultTimeout = 10 * time.Minute

// Config is the immutable per-run request configuration shared by all
// images in a batch.
type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	Prompt    string
	MaxTokens int
	Timeout   time.Duration
}

// Client sends OCR requests for one batch run.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a client for the given request configuration.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Endpoint returns the full chat-completions URL.
func (c *Client) Endpoint() string {
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
}

// Call submits one OCR request carrying the configured prompt and the
// given image, and returns the response body verbatim. The body is
// checked to be valid JSON but its schema is not validated. Non-2xx
// statuses surface as *HTTPError, transport failures as wrapped
// errors; neither is retried.
func (c *Client) Call(ctx context.Context, img *imageio.Payload) (json.RawMessage, error) {
	payload := ChatRequest{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		Messages: []ChatMessage{
			{
				Role: "user",
				Content: []ContentPart{
					{Type: "text", Text: c.cfg.Prompt},
					{Type: "image_url", ImageURL: &ImageURL{URL: img.DataURL()}},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	slog.Debug("submitting OCR request",
		"endpoint", c.Endpoint(), "model", c.cfg.Model, "payload_bytes", len(body))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", c.Endpoint(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       bodyExcerpt(respBody),
		}
	}

	if !json.Valid(respBody) {
		return nil, fmt.Errorf("malformed response from %s: body is not valid JSON", c.Endpoint())
	}

	return json.RawMessage(respBody), nil
}

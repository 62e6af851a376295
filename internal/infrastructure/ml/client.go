package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"DigestCurator/internal/config"
	"DigestCurator/internal/ports"
)

const completePath = "/complete"

// Client talks to a self-hosted model gateway that exposes a plain
// completion endpoint.
type Client struct {
	endpoint    string
	apiKey      string
	model       string
	temperature float32
	http        *http.Client
}

var _ ports.Completer = (*Client)(nil)

type completeRequest struct {
	System      string  `json:"system"`
	User        string  `json:"user"`
	Model       string  `json:"model,omitempty"`
	Temperature float32 `json:"temperature"`
}

type completeResponse struct {
	Text string `json:"text"`
}

// NewClient creates a reusable HTTP client.
func NewClient(cfg config.CompletionConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		endpoint:    strings.TrimSuffix(cfg.Endpoint, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		http:        &http.Client{Timeout: timeout},
	}
}

// Complete posts both prompts and returns the generated text.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.endpoint == "" {
		return "", fmt.Errorf("model gateway endpoint is not configured")
	}

	var resp completeResponse
	err := c.post(ctx, completePath, completeRequest{
		System:      systemPrompt,
		User:        userPrompt,
		Model:       c.model,
		Temperature: c.temperature,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"DigestCurator/internal/config"
	"DigestCurator/internal/domain"
	"DigestCurator/internal/ports"
)

const defaultTimeout = 60 * time.Second

// OpenAICompleter implements ports.Completer with the chat completions API.
type OpenAICompleter struct {
	client      *openai.Client
	model       string
	temperature float32
}

var _ ports.Completer = (*OpenAICompleter)(nil)

// NewOpenAICompleter builds a client from configuration. A missing API key
// is reported as domain.ErrMissingCredentials.
func NewOpenAICompleter(cfg config.CompletionConfig) (*OpenAICompleter, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("openai completer: %w", domain.ErrMissingCredentials)
	}
	if cfg.Model == "" {
		return nil, errors.New("openai completer: model is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientCfg.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAICompleter{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

// Complete sends one system and one user message and returns the reply text.
func (c *OpenAICompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

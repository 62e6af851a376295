package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DigestCurator/internal/config"
	"DigestCurator/internal/domain"
)

func TestNewOpenAICompleterRequiresKey(t *testing.T) {
	t.Parallel()

	_, err := NewOpenAICompleter(config.CompletionConfig{Model: "gpt-4o-mini"})
	require.ErrorIs(t, err, domain.ErrMissingCredentials)
}

func TestOpenAICompleterComplete(t *testing.T) {
	t.Parallel()

	var got struct {
		Model       string  `json:"model"`
		Temperature float32 `json:"temperature"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	var auth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"ratings\": []}"}, "finish_reason": "stop"}]
		}`))
	}))
	defer server.Close()

	c, err := NewOpenAICompleter(config.CompletionConfig{
		Endpoint:    server.URL + "/v1",
		Model:       "gpt-4o-mini",
		APIKey:      "sk-test",
		Temperature: 0.3,
	})
	require.NoError(t, err)

	out, err := c.Complete(context.Background(), "judge", "items")
	require.NoError(t, err)
	assert.Equal(t, `{"ratings": []}`, out)

	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.InDelta(t, 0.3, got.Temperature, 1e-6)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "judge", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "items", got.Messages[1].Content)
}

func TestOpenAICompleterSurfacesAPIErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited", "type": "rate_limit"}}`))
	}))
	defer server.Close()

	c, err := NewOpenAICompleter(config.CompletionConfig{Endpoint: server.URL + "/v1", Model: "m", APIKey: "k"})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat completion")
}

func TestOpenAICompleterNoChoices(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "x", "object": "chat.completion", "choices": []}`))
	}))
	defer server.Close()

	c, err := NewOpenAICompleter(config.CompletionConfig{Endpoint: server.URL, Model: "m", APIKey: "k"})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "s", "u")
	require.ErrorContains(t, err, "no choices")
}

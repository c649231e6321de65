package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cwbridge/core"
)

const completionResponse = `{
	"id": "chatcmpl-123",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "gpt-3.5-turbo",
	"choices": [
		{"index": 0, "message": {"role": "assistant", "content": "Hello! How can I help?"}, "finish_reason": "stop"},
		{"index": 1, "message": {"role": "assistant", "content": "second choice"}, "finish_reason": "stop"}
	],
	"usage": {"prompt_tokens": 3, "completion_tokens": 6, "total_tokens": 9}
}`

func TestOpenAIClient_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), "unexpected path %s", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-3.5-turbo", body.Model)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "user", body.Messages[0].Role)
		assert.Equal(t, "Hello there", body.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(completionResponse))
	}))
	defer server.Close()

	client := NewOpenAIClient(server.Client(), "sk-test", "gpt-3.5-turbo", server.URL)

	text, err := client.Complete(context.Background(), "Hello there")

	require.NoError(t, err)
	assert.Equal(t, "Hello! How can I help?", text)
	assert.Equal(t, "openai", client.Provider())
}

func TestOpenAIClient_Complete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-3.5-turbo","choices":[]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(server.Client(), "sk-test", "gpt-3.5-turbo", server.URL)

	text, err := client.Complete(context.Background(), "hi")

	assert.Empty(t, text)
	kind, ok := core.UpstreamKindOf(err)
	require.True(t, ok)
	assert.Equal(t, core.UpstreamKindEmpty, kind)
}

func TestOpenAIClient_Complete_HTTPError(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(server.Client(), "sk-test", "gpt-3.5-turbo", server.URL)

	_, err := client.Complete(context.Background(), "hi")

	var upstreamErr *core.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, core.UpstreamKindStatus, upstreamErr.Kind)
	assert.Equal(t, http.StatusTooManyRequests, upstreamErr.StatusCode)
	assert.Equal(t, 1, requests, "retries must be disabled")
}

func TestOpenAIClient_Complete_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := NewOpenAIClient(&http.Client{}, "sk-test", "gpt-3.5-turbo", baseURL)

	_, err := client.Complete(context.Background(), "hi")

	kind, ok := core.UpstreamKindOf(err)
	require.True(t, ok)
	assert.Equal(t, core.UpstreamKindTransport, kind)
}

package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSlackReceiver(t *testing.T) (*httptest.Server, chan map[string]any) {
	t.Helper()
	received := make(chan map[string]any, 10)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		var payload map[string]any
		assert.NoError(t, json.Unmarshal(body, &payload))
		received <- payload
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, received
}

func waitForAlert(t *testing.T, received chan map[string]any) map[string]any {
	t.Helper()
	select {
	case payload := <-received:
		return payload
	case <-time.After(2 * time.Second):
		t.Fatal("expected a Slack alert")
		return nil
	}
}

func TestErrorAlertMiddleware_HTTPMiddleware_RecoversPanic(t *testing.T) {
	server, received := newSlackReceiver(t)
	m := NewErrorAlertMiddleware(AlertConfig{
		SlackWebhookURL: server.URL,
		Environment:     "dev",
		AppName:         "cwbridge",
		LogsURL:         "https://logs.example.com",
	}, server.Client())

	handler := m.HTTPMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chatwork", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":"error","message":"Internal server error"}`, rec.Body.String())

	payload := waitForAlert(t, received)
	assert.Equal(t, "🚨 [dev] [cwbridge] Error Alert", payload["text"])
	blocks, ok := payload["blocks"].([]any)
	require.True(t, ok)
	assert.Len(t, blocks, 4)
}

func TestErrorAlertMiddleware_HTTPMiddleware_PassesThrough(t *testing.T) {
	m := NewErrorAlertMiddleware(AlertConfig{AppName: "cwbridge"}, nil)
	handler := m.HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestErrorAlertMiddleware_ReportError(t *testing.T) {
	server, received := newSlackReceiver(t)
	m := NewErrorAlertMiddleware(AlertConfig{
		SlackWebhookURL: server.URL,
		Environment:     "prod",
		AppName:         "cwbridge",
	}, server.Client())

	m.ReportError(errors.New("use case failed"), "POST /chatwork")
	payload := waitForAlert(t, received)
	assert.Equal(t, "🚨 [cwbridge] Error Alert", payload["text"])

	// Same error within the cooldown is not alerted again
	m.ReportError(errors.New("use case failed"), "POST /chatwork")
	select {
	case <-received:
		t.Fatal("duplicate alert should be suppressed")
	case <-time.After(200 * time.Millisecond):
	}

	m.ReportError(nil, "POST /chatwork")
}

func TestErrorAlertMiddleware_ShouldAlert(t *testing.T) {
	m := NewErrorAlertMiddleware(AlertConfig{}, nil)

	assert.True(t, m.shouldAlert("a: boom"))
	assert.False(t, m.shouldAlert("a: boom"))
	assert.True(t, m.shouldAlert("b: boom"))

	m.alertCooldown = 0
	assert.True(t, m.shouldAlert("a: boom"))
}

func TestNewErrorAlertMiddleware_DiscordSession(t *testing.T) {
	withDiscord := NewErrorAlertMiddleware(AlertConfig{
		DiscordWebhookURL: "https://discord.com/api/webhooks/123/abc",
	}, nil)
	assert.NotNil(t, withDiscord.discord)

	withoutDiscord := NewErrorAlertMiddleware(AlertConfig{}, nil)
	assert.Nil(t, withoutDiscord.discord)
}

func TestParseDiscordWebhookURL(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantID    string
		wantToken string
		wantErr   bool
	}{
		{
			name:      "standard webhook URL",
			raw:       "https://discord.com/api/webhooks/1234567890/tok-en_value",
			wantID:    "1234567890",
			wantToken: "tok-en_value",
		},
		{
			name:      "versioned API path",
			raw:       "https://discord.com/api/v10/webhooks/42/secret/",
			wantID:    "42",
			wantToken: "secret",
		},
		{name: "missing token", raw: "https://discord.com/api/webhooks/42", wantErr: true},
		{name: "not a webhook", raw: "https://example.com/hooks/1/2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, token, err := parseDiscordWebhookURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "ab…", truncate("abcdef", 2))
	assert.Equal(t, "日本…", truncate("日本語テキスト", 2))
}

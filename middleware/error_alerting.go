package middleware

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/slack-go/slack"
)

type AlertConfig struct {
	SlackWebhookURL   string
	DiscordWebhookURL string
	Environment       string
	AppName           string
	LogsURL           string
}

type ErrorAlertMiddleware struct {
	config        AlertConfig
	httpClient    *http.Client
	discord       *discordgo.Session
	alertedErrors map[string]time.Time // hash -> last alert time
	mutex         sync.Mutex
	alertCooldown time.Duration // prevent spam
	sendTimeout   time.Duration
}

func NewErrorAlertMiddleware(config AlertConfig, httpClient *http.Client) *ErrorAlertMiddleware {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	m := &ErrorAlertMiddleware{
		config:        config,
		httpClient:    httpClient,
		alertedErrors: make(map[string]time.Time),
		alertCooldown: 10 * time.Minute, // Don't alert same error more than once per 10min
		sendTimeout:   10 * time.Second,
	}

	if config.DiscordWebhookURL != "" {
		// Webhook execution needs no bot token
		session, err := discordgo.New("")
		if err != nil {
			log.Printf("❌ Failed to create Discord session for alerts: %v", err)
		} else {
			session.Client = httpClient
			session.MaxRestRetries = 0
			m.discord = session
		}
	}

	return m
}

// HTTPMiddleware recovers panics that escape a handler, answers 500 and raises an alert
func (m *ErrorAlertMiddleware) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				m.reportPanic(fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path), rec)
				writeInternalServerError(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// ReportError raises an alert for err unless the same error was alerted within the cooldown
func (m *ErrorAlertMiddleware) ReportError(err error, source string) {
	if err == nil {
		return
	}
	m.alertOnError(err, source)
}

// Core error alerting logic
func (m *ErrorAlertMiddleware) alertOnError(err error, source string) {
	errorMsg := fmt.Sprintf("%s: %v", source, err)
	log.Printf("❌ %s", errorMsg)

	if !m.shouldAlert(errorMsg) {
		return
	}

	// Send alert asynchronously
	go m.sendAlerts(errorMsg, source)
}

func (m *ErrorAlertMiddleware) reportPanic(source string, rec any) {
	errorMsg := fmt.Sprintf("%s: PANIC - %v", source, rec)
	log.Printf("❌ %s", errorMsg)
	go m.sendAlerts(errorMsg, source+" (PANIC)")
}

func (m *ErrorAlertMiddleware) shouldAlert(errorMsg string) bool {
	// Create hash of error for deduplication
	hash := fmt.Sprintf("%x", md5.Sum([]byte(errorMsg)))

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if lastAlert, exists := m.alertedErrors[hash]; exists {
		if time.Since(lastAlert) < m.alertCooldown {
			return false // Skip alert - too recent
		}
	}
	m.alertedErrors[hash] = time.Now()
	return true
}

func (m *ErrorAlertMiddleware) sendAlerts(errorMsg, source string) {
	ctx, cancel := context.WithTimeout(context.Background(), m.sendTimeout)
	defer cancel()

	if m.config.SlackWebhookURL != "" {
		if err := m.sendSlackAlert(ctx, errorMsg, source); err != nil {
			log.Printf("❌ Failed to send Slack alert: %v", err)
		}
	}
	if m.discord != nil {
		if err := m.sendDiscordAlert(ctx, errorMsg, source); err != nil {
			log.Printf("❌ Failed to send Discord alert: %v", err)
		}
	}
}

func (m *ErrorAlertMiddleware) alertTitle() string {
	envPrefix := ""
	if m.config.Environment == "dev" {
		envPrefix = "[dev] "
	}
	return fmt.Sprintf("🚨 %s[%s] Error Alert", envPrefix, m.config.AppName)
}

func (m *ErrorAlertMiddleware) sendSlackAlert(ctx context.Context, errorMsg, source string) error {
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, m.alertTitle(), true, false)),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Service:* %s", m.config.AppName), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Environment:* %s", m.config.Environment), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Context:* %s", source), false, false),
		}, nil),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Error:*\n```%s```", errorMsg), false, false),
			nil, nil,
		),
	}
	if m.config.LogsURL != "" {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("🔗 <%s|View Logs>", m.config.LogsURL), false, false),
			nil, nil,
		))
	}

	msg := &slack.WebhookMessage{
		Text:   m.alertTitle(),
		Blocks: &slack.Blocks{BlockSet: blocks},
	}
	return slack.PostWebhookCustomHTTPContext(ctx, m.config.SlackWebhookURL, m.httpClient, msg)
}

func (m *ErrorAlertMiddleware) sendDiscordAlert(ctx context.Context, errorMsg, source string) error {
	webhookID, token, err := parseDiscordWebhookURL(m.config.DiscordWebhookURL)
	if err != nil {
		return err
	}

	content := fmt.Sprintf("**%s**\n**Environment:** %s\n**Context:** %s\n```%s```",
		m.alertTitle(), m.config.Environment, source, truncate(errorMsg, 1500))
	if m.config.LogsURL != "" {
		content += fmt.Sprintf("\n🔗 %s", m.config.LogsURL)
	}

	_, err = m.discord.WebhookExecute(webhookID, token, false, &discordgo.WebhookParams{
		Content: content,
	}, discordgo.WithContext(ctx))
	return err
}

// parseDiscordWebhookURL extracts id and token from https://discord.com/api/webhooks/{id}/{token}
func parseDiscordWebhookURL(raw string) (string, string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid Discord webhook URL: %w", err)
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("discord webhook URL has no /webhooks/{id}/{token} path: %s", raw)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}

func writeInternalServerError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status":  "error",
		"message": "Internal server error",
	}); err != nil {
		log.Printf("❌ Failed to encode error response: %v", err)
	}
}

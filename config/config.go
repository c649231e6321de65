package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"cwbridge/utils"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

type ChatworkConfig struct {
	APIToken         string
	APIBaseURL       string
	MentionEventType string
	PrefixMode       utils.PrefixMode
	PrefixOffset     int
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// IsConfigured returns true if all required OpenAI configuration is present
func (c OpenAIConfig) IsConfigured() bool {
	return c.APIKey != "" && c.Model != ""
}

type AnthropicConfig struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int64
}

// IsConfigured returns true if all required Anthropic configuration is present
func (c AnthropicConfig) IsConfigured() bool {
	return c.APIKey != "" && c.Model != "" && c.MaxTokens > 0
}

type AlertConfig struct {
	SlackWebhookURL   string
	DiscordWebhookURL string
	LogsURL           string
}

// IsConfigured returns true if at least one alert sink is set
func (c AlertConfig) IsConfigured() bool {
	return c.SlackWebhookURL != "" || c.DiscordWebhookURL != ""
}

// AppConfig is loaded once at start-up and shared read-only by every component
type AppConfig struct {
	Port               string // Optional with default "5000"
	CORSAllowedOrigins string // Optional with default "*"
	Environment        string
	UpstreamTimeout    time.Duration
	CompletionProvider string

	ChatworkConfig  ChatworkConfig
	OpenAIConfig    OpenAIConfig
	AnthropicConfig AnthropicConfig
	AlertConfig     AlertConfig
}

// LoadConfig reads the default .env file (if any) and the process environment
func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}
	return FromEnv()
}

// LoadConfigFromFile reads envFile instead of the default .env
func LoadConfigFromFile(envFile string) (*AppConfig, error) {
	if err := godotenv.Load(envFile); err != nil {
		return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only
func FromEnv() (*AppConfig, error) {
	chatworkToken, err := getEnvRequired("CHATWORK_TOKEN")
	if err != nil {
		return nil, err
	}

	prefixMode, err := utils.ParsePrefixMode(getEnvWithDefault("MESSAGE_PREFIX_MODE", string(utils.PrefixModeTag)))
	if err != nil {
		return nil, fmt.Errorf("MESSAGE_PREFIX_MODE: %w", err)
	}

	prefixOffset, err := getEnvInt("MESSAGE_PREFIX_OFFSET", utils.DefaultPrefixOffset)
	if err != nil {
		return nil, err
	}
	if prefixOffset < 0 {
		return nil, fmt.Errorf("MESSAGE_PREFIX_OFFSET cannot be negative")
	}

	upstreamTimeout, err := getEnvDuration("UPSTREAM_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	anthropicMaxTokens, err := getEnvInt("ANTHROPIC_MAX_TOKENS", 1024)
	if err != nil {
		return nil, err
	}

	chatworkBase := strings.TrimRight(getEnvWithDefault("CHATWORK_API_BASE", "https://api.chatwork.com/v2"), "/")
	if _, err := url.ParseRequestURI(chatworkBase); err != nil {
		return nil, fmt.Errorf("CHATWORK_API_BASE is not a valid URL: %w", err)
	}

	config := &AppConfig{
		Port:               getEnvWithDefault("PORT", "5000"),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "dev"),
		UpstreamTimeout:    upstreamTimeout,
		CompletionProvider: strings.ToLower(getEnvWithDefault("COMPLETION_PROVIDER", ProviderOpenAI)),

		ChatworkConfig: ChatworkConfig{
			APIToken:         chatworkToken,
			APIBaseURL:       chatworkBase,
			MentionEventType: getEnvWithDefault("MENTION_EVENT_TYPE", "mention_to_me"),
			PrefixMode:       prefixMode,
			PrefixOffset:     prefixOffset,
		},

		OpenAIConfig: OpenAIConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			Model:   getEnvWithDefault("OPENAI_MODEL", "gpt-3.5-turbo"),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
		},

		AnthropicConfig: AnthropicConfig{
			APIKey:    os.Getenv("ANTHROPIC_API_KEY"),
			Model:     getEnvWithDefault("ANTHROPIC_MODEL", "claude-3-5-sonnet-20241022"),
			BaseURL:   os.Getenv("ANTHROPIC_BASE_URL"),
			MaxTokens: int64(anthropicMaxTokens),
		},

		AlertConfig: AlertConfig{
			SlackWebhookURL:   os.Getenv("SLACK_ALERT_WEBHOOK_URL"),
			DiscordWebhookURL: os.Getenv("DISCORD_ALERT_WEBHOOK_URL"),
			LogsURL:           os.Getenv("SERVER_LOGS_URL"),
		},
	}

	switch config.CompletionProvider {
	case ProviderOpenAI:
		if !config.OpenAIConfig.IsConfigured() {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		log.Printf("✅ OpenAI completion provider configured (model: %s)", config.OpenAIConfig.Model)
	case ProviderAnthropic:
		if !config.AnthropicConfig.IsConfigured() {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set or ANTHROPIC_MAX_TOKENS is not positive")
		}
		log.Printf("✅ Anthropic completion provider configured (model: %s)", config.AnthropicConfig.Model)
	default:
		return nil, fmt.Errorf("unknown COMPLETION_PROVIDER %q", config.CompletionProvider)
	}

	if config.AlertConfig.IsConfigured() {
		log.Printf("✅ Error alerting configured")
	} else {
		log.Printf("⚠️ Error alerting not configured - alerts will only be logged")
	}

	return config, nil
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration such as 30s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

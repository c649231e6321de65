package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jessevdk/go-flags"
	"github.com/rs/cors"

	"cwbridge/clients"
	anthropicclient "cwbridge/clients/anthropic"
	chatworkclient "cwbridge/clients/chatwork"
	openaiclient "cwbridge/clients/openai"
	"cwbridge/config"
	"cwbridge/handlers"
	"cwbridge/middleware"
	"cwbridge/services/completion"
	"cwbridge/services/directory"
	"cwbridge/services/notifier"
	"cwbridge/usecases/mention"
)

type Options struct {
	EnvFile string `long:"env-file" description:"Path to a .env file loaded instead of ./.env"`
	Port    string `long:"port" description:"Port to listen on (overrides PORT)"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func loadConfig(opts Options) (*config.AppConfig, error) {
	if opts.Port != "" {
		if err := os.Setenv("PORT", opts.Port); err != nil {
			return nil, fmt.Errorf("failed to apply --port: %w", err)
		}
	}
	if opts.EnvFile != "" {
		return config.LoadConfigFromFile(opts.EnvFile)
	}
	return config.LoadConfig()
}

func newCompletionClient(cfg *config.AppConfig, httpClient *http.Client) clients.CompletionClient {
	if cfg.CompletionProvider == config.ProviderAnthropic {
		return anthropicclient.NewAnthropicClient(
			httpClient,
			cfg.AnthropicConfig.APIKey,
			cfg.AnthropicConfig.Model,
			cfg.AnthropicConfig.BaseURL,
			cfg.AnthropicConfig.MaxTokens,
		)
	}
	return openaiclient.NewOpenAIClient(
		httpClient,
		cfg.OpenAIConfig.APIKey,
		cfg.OpenAIConfig.Model,
		cfg.OpenAIConfig.BaseURL,
	)
}

func run(opts Options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	// Initialize error alert middleware
	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.AlertConfig{
		SlackWebhookURL:   cfg.AlertConfig.SlackWebhookURL,
		DiscordWebhookURL: cfg.AlertConfig.DiscordWebhookURL,
		Environment:       cfg.Environment,
		AppName:           "cwbridge",
		LogsURL:           cfg.AlertConfig.LogsURL,
	}, nil)

	// One client for every upstream so a hung call cannot outlive UPSTREAM_TIMEOUT
	upstreamHTTPClient := &http.Client{Timeout: cfg.UpstreamTimeout}

	completionClient := newCompletionClient(cfg, upstreamHTTPClient)
	chatworkClient := chatworkclient.NewChatworkClient(
		upstreamHTTPClient,
		cfg.ChatworkConfig.APIBaseURL,
		cfg.ChatworkConfig.APIToken,
	)
	log.Printf("📋 Using %s completion provider", completionClient.Provider())

	completionService := completion.NewCompletionService(completionClient)
	directoryService := directory.NewDirectoryService(chatworkClient)
	notifierService := notifier.NewNotifierService(chatworkClient)
	mentionUseCase := mention.NewMentionUseCase(completionService, directoryService, notifierService)

	chatworkHandler := handlers.NewChatworkEventsHandler(
		mentionUseCase,
		cfg.ChatworkConfig.MentionEventType,
		cfg.ChatworkConfig.PrefixMode,
		cfg.ChatworkConfig.PrefixOffset,
		alertMiddleware,
	)
	healthHandler := handlers.NewHealthHandler()

	// Create a new router
	router := mux.NewRouter()
	router.Use(middleware.RequestID)

	chatworkHandler.SetupEndpoints(router)
	healthHandler.SetupEndpoints(router)

	// Setup CORS middleware
	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	})

	// Setup and handle graceful shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(c.Handler(router)),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server)
}

func handleGracefulShutdown(server *http.Server) error {
	// Channel to listen for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)

	// Start server in a goroutine
	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or a listener failure
	select {
	case <-stop:
		log.Printf("🛑 Shutdown signal received, cleaning up...")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown server gracefully
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Printf("✅ Server shutdown completed")
	return nil
}

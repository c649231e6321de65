package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"cwbridge/clients"
	"cwbridge/core"
)

const serviceName = "anthropic"

// AnthropicClient implements clients.CompletionClient with the Messages API
type AnthropicClient struct {
	sdkClient anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewAnthropicClient creates a completion client. An empty baseURL keeps the SDK default.
func NewAnthropicClient(httpClient *http.Client, apiKey, model, baseURL string, maxTokens int64) clients.CompletionClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &AnthropicClient{
		sdkClient: anthropic.NewClient(opts...),
		model:     anthropic.Model(model),
		maxTokens: maxTokens,
	}
}

// Complete sends prompt as a single user message and returns the first text block of the reply
func (c *AnthropicClient) Complete(ctx context.Context, prompt string) (string, error) {
	message, err := c.sdkClient.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", &core.UpstreamError{
				Service:    serviceName,
				Kind:       core.UpstreamKindStatus,
				StatusCode: apiErr.StatusCode,
				Err:        err,
			}
		}
		return "", core.NewUpstreamError(serviceName, core.UpstreamKindTransport, err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}

	return "", core.NewUpstreamError(serviceName, core.UpstreamKindEmpty, fmt.Errorf("message contained no text block"))
}

func (c *AnthropicClient) Provider() string {
	return serviceName
}

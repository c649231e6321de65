package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"cwbridge/clients"
	"cwbridge/core"
)

const serviceName = "openai"

// OpenAIClient implements clients.CompletionClient with the chat completions API
type OpenAIClient struct {
	sdkClient openai.Client
	model     string
}

// NewOpenAIClient creates a completion client. An empty baseURL keeps the SDK default.
func NewOpenAIClient(httpClient *http.Client, apiKey, model, baseURL string) clients.CompletionClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAIClient{
		sdkClient: openai.NewClient(opts...),
		model:     model,
	}
}

// Complete sends prompt as a single user message and returns the first choice's content
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	completion, err := c.sdkClient.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", classifyError(err)
	}

	if len(completion.Choices) == 0 {
		return "", core.NewUpstreamError(serviceName, core.UpstreamKindEmpty, fmt.Errorf("completion returned no choices"))
	}

	return completion.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) Provider() string {
	return serviceName
}

func classifyError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &core.UpstreamError{
			Service:    serviceName,
			Kind:       core.UpstreamKindStatus,
			StatusCode: apiErr.StatusCode,
			Err:        err,
		}
	}
	return core.NewUpstreamError(serviceName, core.UpstreamKindTransport, err)
}

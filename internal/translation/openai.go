package translation

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/sashabaranov/go-openai"
)

// OpenAIBackend talks to the OpenAI chat completions API
type OpenAIBackend struct {
	client *openai.Client
}

// NewOpenAIBackend creates an OpenAI backend. A non-empty baseURL targets an
// OpenAI-compatible server instead of api.openai.com.
func NewOpenAIBackend(apiKey, baseURL string) *OpenAIBackend {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIBackend{client: openai.NewClientWithConfig(config)}
}

// Name returns the provider name
func (b *OpenAIBackend) Name() string { return string(ProviderOpenAI) }

// Complete sends the request as a system + user chat completion
func (b *OpenAIBackend) Complete(ctx context.Context, req Request) (string, error) {
	// go-openai omits a zero temperature, which would leave the server default
	temperature := req.Temperature
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}
	seed := req.Seed

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: temperature,
		Seed:        &seed,
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	return resp.Choices[0].Message.Content, nil
}

func classifyOpenAIError(err error) error {
	wrapped := fmt.Errorf("OpenAI API error: %w", err)

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && permanentStatus(apiErr.HTTPStatusCode) {
		return Permanent(wrapped)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && permanentStatus(reqErr.HTTPStatusCode) {
		return Permanent(wrapped)
	}
	return wrapped
}

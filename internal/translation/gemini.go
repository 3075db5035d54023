package translation

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiBackend talks to the Google Gemini API
type GeminiBackend struct {
	client *genai.Client
}

// NewGeminiBackend creates a Gemini backend for the given API key
func NewGeminiBackend(ctx context.Context, apiKey string) (*GeminiBackend, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiBackend{client: client}, nil
}

// Name returns the provider name
func (b *GeminiBackend) Name() string { return string(ProviderGemini) }

// Complete sends the request with the system prompt as system instruction
func (b *GeminiBackend) Complete(ctx context.Context, req Request) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		Temperature:       genai.Ptr(req.Temperature),
		Seed:              genai.Ptr(int32(req.Seed)),
	}

	resp, err := b.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.User), config)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no translation returned")
	}
	return text, nil
}

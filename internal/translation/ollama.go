package translation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultOllamaURL = "http://localhost:11434"

// OllamaBackend talks to a local Ollama server's /api/chat endpoint
type OllamaBackend struct {
	baseURL string
	http    *resty.Client
}

// NewOllamaBackend creates an Ollama backend; an empty baseURL means localhost
func NewOllamaBackend(baseURL string) *OllamaBackend {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	return &OllamaBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    resty.New().SetTimeout(5 * time.Minute),
	}
}

// Name returns the provider name
func (b *OllamaBackend) Name() string { return string(ProviderOllama) }

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  map[string]any  `json:"options"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
}

// Complete sends a non-streaming chat request
func (b *OllamaBackend) Complete(ctx context.Context, req Request) (string, error) {
	body := ollamaChatRequest{
		Model: req.Model,
		Messages: []ollamaMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Stream: false,
		Options: map[string]any{
			"temperature": req.Temperature,
			"seed":        req.Seed,
		},
	}

	var resp ollamaChatResponse
	rr, err := b.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&resp).
		Post(b.baseURL + "/api/chat")
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	if rr.IsError() {
		err := fmt.Errorf("ollama chat: %s; body: %s", rr.Status(), rr.String())
		if permanentStatus(rr.StatusCode()) {
			return "", Permanent(err)
		}
		return "", err
	}

	if resp.Message.Content == "" {
		return "", fmt.Errorf("no translation returned")
	}
	return resp.Message.Content, nil
}

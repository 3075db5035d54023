package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Request is a single chat completion request
type Request struct {
	Model       string
	System      string
	User        string
	Temperature float32
	Seed        int
}

// Backend sends a prompt to an LLM and returns the raw completion text
type Backend interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// Provider names a backend implementation
type Provider string

const (
	// ProviderOpenAI uses the OpenAI chat completions API (or a compatible endpoint)
	ProviderOpenAI Provider = "openai"
	// ProviderGemini uses the Google Gemini API
	ProviderGemini Provider = "gemini"
	// ProviderOllama uses a local Ollama server
	ProviderOllama Provider = "ollama"
)

// ParseProvider parses a provider name, case-insensitively
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "openai":
		return ProviderOpenAI, nil
	case "gemini", "google":
		return ProviderGemini, nil
	case "ollama":
		return ProviderOllama, nil
	default:
		return "", fmt.Errorf("unknown provider: %s (supported: openai, gemini, ollama)", s)
	}
}

// NeedsAPIKey reports whether the provider requires a credential
func (p Provider) NeedsAPIKey() bool {
	return p != ProviderOllama
}

// BackendConfig holds configuration for creating a Backend
type BackendConfig struct {
	Provider Provider
	APIKey   string
	// BaseURL overrides the provider endpoint (OpenAI-compatible servers, remote Ollama)
	BaseURL string
	Logger  *logrus.Logger
}

// NewBackend creates the backend selected by cfg.Provider
func NewBackend(ctx context.Context, cfg BackendConfig) (Backend, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	cfg.Logger.WithFields(logrus.Fields{
		"provider": cfg.Provider,
		"base_url": cfg.BaseURL,
	}).Debug("Creating translation backend")

	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key not found")
		}
		return NewOpenAIBackend(cfg.APIKey, cfg.BaseURL), nil
	case ProviderGemini:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("Gemini API key not found")
		}
		return NewGeminiBackend(ctx, cfg.APIKey)
	case ProviderOllama:
		return NewOllamaBackend(cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown translation provider: %s", cfg.Provider)
	}
}

// permanentError marks a backend failure that retrying cannot fix
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so the Translator does not retry it
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

// permanentStatus reports HTTP statuses that fail the same way on every attempt
func permanentStatus(code int) bool {
	switch code {
	case 400, 401, 403, 404:
		return true
	}
	return false
}
